package desks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/life-desks/internal/logging"
	"github.com/Tiliavir/life-desks/internal/model"
	"github.com/Tiliavir/life-desks/internal/storage"
)

var (
	ErrDeskNotFound = errors.New("desk not found")
	ErrDeskIndex    = errors.New("desk position out of range")
	ErrEmptyName    = errors.New("desk name is empty")
	ErrInvalidColor = errors.New("color is not in the palette")
)

// DefaultColor is the accent every built-in desk starts with.
const DefaultColor = "#3B82F6"

// Palette lists the accent colors a desk may use.
var Palette = []string{"#3B82F6", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B", "#EF4444", "#06B6D4", "#84CC16"}

// Defaults returns the four built-in desks.
func Defaults() []model.Desk {
	return []model.Desk{
		{ID: "work", Name: "Work", Letter: "W", Color: DefaultColor, Icon: "W"},
		{ID: "personal", Name: "Personal", Letter: "P", Color: DefaultColor, Icon: "P"},
		{ID: "family", Name: "Family", Letter: "F", Color: DefaultColor, Icon: "F"},
		{ID: "health", Name: "Health", Letter: "H", Color: DefaultColor, Icon: "H"},
	}
}

// Store keeps the ordered desk list, the active desk and the onboarding flag.
// The active id always names a desk in the list.
type Store struct {
	kv         storage.Store
	log        logrus.FieldLogger
	desks      []model.Desk
	active     string
	onboarding bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a Store holding the default desks. Call Load to rehydrate.
func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{kv: kv, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.desks = Defaults()
	s.active = s.desks[0].ID
	return s
}

// Load reads desks, active desk and onboarding flag. Missing, unreadable or
// empty desk lists fall back to the defaults; an unknown active id falls back
// to the first desk. Backend read errors are returned after the fallbacks
// have been applied.
func (s *Store) Load() error {
	var errs []error

	s.desks = Defaults()
	raw, ok, err := s.kv.Get(storage.KeyDesks)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("loading desks: %w", err))
	case ok:
		var loaded []model.Desk
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			s.log.WithError(err).WithField("key", storage.KeyDesks).Warn("Stored desks are unreadable, using defaults")
		} else if len(loaded) > 0 {
			s.desks = loaded
		}
	}

	s.active = s.desks[0].ID
	id, ok, err := s.kv.Get(storage.KeyActiveDesk)
	if err != nil {
		errs = append(errs, fmt.Errorf("loading active desk: %w", err))
	} else if ok && s.index(strings.TrimSpace(id)) >= 0 {
		s.active = strings.TrimSpace(id)
	}

	seen, ok, err := s.kv.Get(storage.KeyOnboarding)
	if err != nil {
		errs = append(errs, fmt.Errorf("loading onboarding flag: %w", err))
	}
	s.onboarding = ok && strings.TrimSpace(seen) == "true"

	return errors.Join(errs...)
}

func (s *Store) persist() {
	data, err := json.Marshal(s.desks)
	if err != nil {
		s.log.WithError(err).Warn("Failed to encode desks")
		return
	}
	if err := s.kv.Set(storage.KeyDesks, string(data)); err != nil {
		s.log.WithError(err).Warn("Failed to save desks")
	}
	if err := s.kv.Set(storage.KeyActiveDesk, s.active); err != nil {
		s.log.WithError(err).Warn("Failed to save active desk")
	}
}

func (s *Store) index(id string) int {
	for i := range s.desks {
		if s.desks[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns the desks in display order.
func (s *Store) List() []model.Desk {
	out := make([]model.Desk, len(s.desks))
	copy(out, s.desks)
	return out
}

// Desk looks up a desk by id.
func (s *Store) Desk(id string) (model.Desk, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Desk{}, false
	}
	return s.desks[i], true
}

// Active returns the currently selected desk.
func (s *Store) Active() model.Desk {
	return s.desks[s.index(s.active)]
}

// SetActive selects the desk new goals are filed under.
func (s *Store) SetActive(id string) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %q", ErrDeskNotFound, id)
	}
	s.active = id
	s.persist()
	s.log.WithField("desk_id", id).Debug("Active desk changed")
	return nil
}

// Rename sets a new display name. The letter badge follows the first
// character of the name, and so does the icon while it still mirrors the
// letter.
func (s *Store) Rename(id, name string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrDeskNotFound, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	r, _ := utf8.DecodeRuneInString(name)
	letter := string(unicode.ToUpper(r))

	d := &s.desks[i]
	if d.Icon == d.Letter {
		d.Icon = letter
	}
	d.Name = name
	d.Letter = letter
	s.persist()
	return nil
}

// SetColor changes a desk's accent color. Only palette colors are accepted;
// matching is case-insensitive and the palette spelling is stored.
func (s *Store) SetColor(id, color string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrDeskNotFound, id)
	}
	for _, c := range Palette {
		if strings.EqualFold(c, strings.TrimSpace(color)) {
			s.desks[i].Color = c
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidColor, color)
}

// Move takes the desk at position from and reinserts it at position to,
// shifting the desks in between.
func (s *Store) Move(from, to int) error {
	n := len(s.desks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d desks", ErrDeskIndex, from, to, n)
	}
	if from == to {
		return nil
	}
	d := s.desks[from]
	rest := append(s.desks[:from:from], s.desks[from+1:]...)
	s.desks = append(rest[:to:to], append([]model.Desk{d}, rest[to:]...)...)
	s.persist()
	return nil
}

// Remove deletes a desk. Removing the active desk activates the first
// remaining one; removing the last desk restores the defaults. Goals filed
// under the removed desk are left untouched.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrDeskNotFound, id)
	}
	wasActive := s.desks[i].ID == s.active
	s.desks = append(s.desks[:i:i], s.desks[i+1:]...)
	if len(s.desks) == 0 {
		s.desks = Defaults()
	}
	if wasActive || s.index(s.active) < 0 {
		s.active = s.desks[0].ID
	}
	s.persist()
	s.log.WithFields(logrus.Fields{"desk_id": id, "active": s.active}).Debug("Desk removed")
	return nil
}

// HasSeenOnboarding reports whether the desk introduction was dismissed.
func (s *Store) HasSeenOnboarding() bool {
	return s.onboarding
}

// SetSeenOnboarding records whether the introduction was dismissed.
func (s *Store) SetSeenOnboarding(seen bool) {
	s.onboarding = seen
	value := "false"
	if seen {
		value = "true"
	}
	if err := s.kv.Set(storage.KeyOnboarding, value); err != nil {
		s.log.WithError(err).Warn("Failed to save onboarding flag")
	}
}

package goals

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/life-desks/internal/logging"
	"github.com/Tiliavir/life-desks/internal/model"
	"github.com/Tiliavir/life-desks/internal/storage"
	"github.com/Tiliavir/life-desks/internal/timecalc"
)

var (
	// ErrGoalNotFound is returned when an operation names an unknown goal.
	// The store is left unchanged.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrSubtaskIndex is returned for a subtask position outside the goal's
	// list. The store is left unchanged.
	ErrSubtaskIndex = errors.New("subtask index out of range")
)

// InitialSubtasks is the number of blank subtasks a new goal starts with.
const InitialSubtasks = 3

// quarantiner is implemented by backends that can set unreadable data aside.
type quarantiner interface {
	Quarantine(key string) (string, error)
}

// Store holds goals newest-first and writes a snapshot to the key-value
// backend after every mutation. Write failures are logged and otherwise
// ignored: the in-memory sequence stays authoritative for the session.
type Store struct {
	kv    storage.Store
	log   logrus.FieldLogger
	ids   IDSource
	now   Clock
	seed  []model.Goal
	goals []model.Goal
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings and debug traces.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithIDSource replaces the default clock-based Counter.
func WithIDSource(ids IDSource) Option {
	return func(s *Store) { s.ids = ids }
}

// WithClock sets the clock used for creation date labels.
func WithClock(now Clock) Option {
	return func(s *Store) { s.now = now }
}

// WithSeed sets the goals used when nothing usable is stored.
func WithSeed(seed []model.Goal) Option {
	return func(s *Store) { s.seed = seed }
}

// New returns an empty Store. Call Load to rehydrate persisted goals.
func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		log: logging.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewCounter(s.now)
	}
	return s
}

// Load replaces the in-memory goals with the stored snapshot. Absent or
// malformed data falls back to the seed; only a failing backend read is
// returned as an error, and even then the seed is installed.
func (s *Store) Load() error {
	raw, ok, err := s.kv.Get(storage.KeyGoals)
	if err != nil {
		s.goals = cloneAll(s.seed)
		return fmt.Errorf("loading goals: %w", err)
	}
	if !ok {
		s.goals = cloneAll(s.seed)
		return nil
	}

	var loaded []model.Goal
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		entry := s.log.WithError(err).WithField("key", storage.KeyGoals)
		if q, ok := s.kv.(quarantiner); ok {
			if backup, qerr := q.Quarantine(storage.KeyGoals); qerr == nil {
				entry = entry.WithField("backup", backup)
			}
		}
		entry.Warn("Stored goals are unreadable, starting from seed data")
		s.goals = cloneAll(s.seed)
		return nil
	}
	for i := range loaded {
		if loaded[i].Subtasks == nil {
			loaded[i].Subtasks = []model.Subtask{}
		}
	}
	s.goals = loaded
	return nil
}

// persist writes the full sequence. Failures are swallowed after logging.
func (s *Store) persist() {
	goals := s.goals
	if goals == nil {
		goals = []model.Goal{}
	}
	data, err := json.Marshal(goals)
	if err != nil {
		s.log.WithError(err).Warn("Failed to encode goals")
		return
	}
	if err := s.kv.Set(storage.KeyGoals, string(data)); err != nil {
		s.log.WithError(err).Warn("Failed to save goals")
	}
}

func (s *Store) index(id int64) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

// newID returns an id greater than every goal currently held.
func (s *Store) newID() int64 {
	var highest int64
	for _, g := range s.goals {
		highest = max(highest, g.ID)
	}
	if o, ok := s.ids.(observer); ok {
		o.Observe(highest)
	}
	id := s.ids.Next()
	for id <= highest || s.index(id) >= 0 {
		id = s.ids.Next()
	}
	return id
}

// mutate applies fn to the goal with id and persists the result. Nothing is
// written when the goal is unknown or fn rejects the change.
func (s *Store) mutate(id int64, action string, fn func(g *model.Goal) error) error {
	log := s.log.WithFields(logrus.Fields{"goal_id": id, "action": action})
	i := s.index(id)
	if i < 0 {
		log.Debug("Goal not found, ignoring")
		return fmt.Errorf("%w: %d", ErrGoalNotFound, id)
	}
	if err := fn(&s.goals[i]); err != nil {
		log.WithError(err).Debug("Rejected goal mutation")
		return err
	}
	s.persist()
	log.WithField("progress", s.goals[i].Progress).Debug("Goal updated")
	return nil
}

func checkIndex(g *model.Goal, idx int) error {
	if idx < 0 || idx >= len(g.Subtasks) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSubtaskIndex, idx, len(g.Subtasks))
	}
	return nil
}

// CreateGoal puts a new goal at the front of the sequence with three blank
// subtasks and zero progress. The title is trimmed but not validated.
func (s *Store) CreateGoal(title, deskID string) model.Goal {
	g := model.Goal{
		ID:       s.newID(),
		Title:    strings.TrimSpace(title),
		Date:     timecalc.DateLabel(s.now()),
		DeskID:   deskID,
		Subtasks: make([]model.Subtask, InitialSubtasks),
	}
	s.goals = append([]model.Goal{g}, s.goals...)
	s.persist()
	s.log.WithFields(logrus.Fields{"goal_id": g.ID, "desk_id": deskID}).Debug("Goal created")
	return g.Clone()
}

// ToggleSubtask flips one subtask and recomputes progress.
func (s *Store) ToggleSubtask(id int64, idx int) error {
	return s.mutate(id, "toggle_subtask", func(g *model.Goal) error {
		if err := checkIndex(g, idx); err != nil {
			return err
		}
		g.Subtasks[idx].Completed = !g.Subtasks[idx].Completed
		g.Progress = Progress(g.Subtasks)
		return nil
	})
}

// StartWork marks the goal as started. Starting twice is harmless.
func (s *Store) StartWork(id int64) error {
	return s.mutate(id, "start_work", func(g *model.Goal) error {
		g.IsStarted = true
		return nil
	})
}

// CompleteProject marks the goal and every subtask complete and pins
// progress at 100, regardless of the previous subtask state.
func (s *Store) CompleteProject(id int64) error {
	return s.mutate(id, "complete", func(g *model.Goal) error {
		g.IsCompleted = true
		g.Progress = 100
		for i := range g.Subtasks {
			g.Subtasks[i].Completed = true
		}
		return nil
	})
}

// DeleteProject removes the goal together with its subtasks.
func (s *Store) DeleteProject(id int64) error {
	i := s.index(id)
	if i < 0 {
		s.log.WithFields(logrus.Fields{"goal_id": id, "action": "delete"}).Debug("Goal not found, ignoring")
		return fmt.Errorf("%w: %d", ErrGoalNotFound, id)
	}
	s.goals = append(s.goals[:i:i], s.goals[i+1:]...)
	s.persist()
	s.log.WithField("goal_id", id).Debug("Goal deleted")
	return nil
}

// UpdateSubtask replaces a subtask title only.
func (s *Store) UpdateSubtask(id int64, idx int, title string) error {
	return s.mutate(id, "update_subtask", func(g *model.Goal) error {
		if err := checkIndex(g, idx); err != nil {
			return err
		}
		g.Subtasks[idx].Title = title
		return nil
	})
}

// AddSubtask appends a blank subtask. Progress can only stay or drop.
func (s *Store) AddSubtask(id int64) error {
	return s.mutate(id, "add_subtask", func(g *model.Goal) error {
		g.Subtasks = append(g.Subtasks, model.Subtask{})
		g.Progress = Progress(g.Subtasks)
		return nil
	})
}

// DeleteSubtask removes one subtask and recomputes progress from the rest.
func (s *Store) DeleteSubtask(id int64, idx int) error {
	return s.mutate(id, "delete_subtask", func(g *model.Goal) error {
		if err := checkIndex(g, idx); err != nil {
			return err
		}
		g.Subtasks = append(g.Subtasks[:idx:idx], g.Subtasks[idx+1:]...)
		g.Progress = Progress(g.Subtasks)
		return nil
	})
}

// ProjectsForCategory returns copies of the goals in deskID, newest first.
func (s *Store) ProjectsForCategory(deskID string) []model.Goal {
	out := []model.Goal{}
	for _, g := range s.goals {
		if g.DeskID == deskID {
			out = append(out, g.Clone())
		}
	}
	return out
}

// Goals returns copies of every goal, newest first.
func (s *Store) Goals() []model.Goal {
	return cloneAll(s.goals)
}

// Goal looks up a single goal by id.
func (s *Store) Goal(id int64) (model.Goal, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Goal{}, false
	}
	return s.goals[i].Clone(), true
}

// Summary aggregates the goals of one desk.
type Summary struct {
	DeskID       string `json:"deskId"`
	Total        int    `json:"total"`
	Started      int    `json:"started"`
	Completed    int    `json:"completed"`
	MeanProgress int    `json:"meanProgress"`
}

// Summarize reports goal counts and mean progress for deskID. Mean progress
// is rounded half up and 0 for an empty desk.
func (s *Store) Summarize(deskID string) Summary {
	sum := Summary{DeskID: deskID}
	progress := 0
	for _, g := range s.goals {
		if g.DeskID != deskID {
			continue
		}
		sum.Total++
		progress += g.Progress
		if g.IsStarted {
			sum.Started++
		}
		if g.IsCompleted {
			sum.Completed++
		}
	}
	if sum.Total > 0 {
		sum.MeanProgress = (2*progress + sum.Total) / (2 * sum.Total)
	}
	return sum
}

func cloneAll(goals []model.Goal) []model.Goal {
	out := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.Clone())
	}
	return out
}

package goals_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/life-desks/internal/goals"
	"github.com/Tiliavir/life-desks/internal/model"
	"github.com/Tiliavir/life-desks/internal/storage"
)

var created = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T, kv storage.Store, opts ...goals.Option) *goals.Store {
	t.Helper()
	base := []goals.Option{
		goals.WithIDSource(goals.NewSequence(0)),
		goals.WithClock(func() time.Time { return created }),
	}
	s := goals.New(kv, append(base, opts...)...)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func storedGoals(t *testing.T, kv storage.Store) []model.Goal {
	t.Helper()
	raw, ok, err := kv.Get(storage.KeyGoals)
	if err != nil || !ok {
		t.Fatalf("stored goals missing (ok=%v, err=%v)", ok, err)
	}
	var out []model.Goal
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("stored goals unreadable: %v", err)
	}
	return out
}

func TestEndToEndScenario(t *testing.T) {
	kv := storage.NewMemory(nil)
	s := newStore(t, kv)

	g := s.CreateGoal("Ship v1", "work")
	if g.Title != "Ship v1" || g.DeskID != "work" || g.Progress != 0 {
		t.Fatalf("created goal = %+v", g)
	}
	if g.Date != "Jan 15" {
		t.Errorf("Date = %q, want %q", g.Date, "Jan 15")
	}
	if len(g.Subtasks) != 3 {
		t.Fatalf("subtasks = %d, want 3", len(g.Subtasks))
	}
	for i, st := range g.Subtasks {
		if st.Title != "" || st.Completed {
			t.Errorf("subtask %d = %+v, want blank and open", i, st)
		}
	}

	steps := []struct {
		name string
		do   func() error
		want int
	}{
		{"toggle 0", func() error { return s.ToggleSubtask(g.ID, 0) }, 33},
		{"toggle 1", func() error { return s.ToggleSubtask(g.ID, 1) }, 67},
		{"complete", func() error { return s.CompleteProject(g.ID) }, 100},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		got, _ := s.Goal(g.ID)
		if got.Progress != step.want {
			t.Errorf("%s: progress = %d, want %d", step.name, got.Progress, step.want)
		}
	}

	got, _ := s.Goal(g.ID)
	if !got.IsCompleted {
		t.Error("IsCompleted = false after CompleteProject")
	}
	for i, st := range got.Subtasks {
		if !st.Completed {
			t.Errorf("subtask %d not completed after CompleteProject", i)
		}
	}

	persisted := storedGoals(t, kv)
	if len(persisted) != 1 || persisted[0].Progress != 100 || !persisted[0].IsCompleted {
		t.Errorf("persisted = %+v, want completed goal at 100", persisted)
	}
}

func TestCreateGoalNewestFirst(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	a := s.CreateGoal("first", "work")
	b := s.CreateGoal("  second  ", "work")
	c := s.CreateGoal("third", "health")

	all := s.Goals()
	if len(all) != 3 {
		t.Fatalf("goals = %d, want 3", len(all))
	}
	if all[0].ID != c.ID || all[1].ID != b.ID || all[2].ID != a.ID {
		t.Errorf("order = %d,%d,%d; want %d,%d,%d", all[0].ID, all[1].ID, all[2].ID, c.ID, b.ID, a.ID)
	}
	if b.Title != "second" {
		t.Errorf("title = %q, want trimmed %q", b.Title, "second")
	}
	for _, g := range all {
		if len(g.Subtasks) != goals.InitialSubtasks || g.Progress != 0 {
			t.Errorf("goal %d: %d subtasks, progress %d", g.ID, len(g.Subtasks), g.Progress)
		}
	}
}

func TestCreateGoalSkipsTakenIDs(t *testing.T) {
	raw, _ := json.Marshal([]model.Goal{{ID: 1, Title: "old", DeskID: "work", Subtasks: []model.Subtask{}}})
	kv := storage.NewMemory(map[string]string{storage.KeyGoals: string(raw)})
	s := newStore(t, kv)

	g := s.CreateGoal("new", "work")
	if g.ID == 1 {
		t.Fatal("CreateGoal reused an existing id")
	}
}

func TestCreateGoalIDAboveLoadedIDs(t *testing.T) {
	ahead := created.Add(24 * time.Hour).UnixMilli()
	raw, _ := json.Marshal([]model.Goal{
		{ID: ahead, Title: "from a faster clock", DeskID: "work", Subtasks: []model.Subtask{}},
		{ID: 5, Title: "old", DeskID: "work", Subtasks: []model.Subtask{}},
	})
	kv := storage.NewMemory(map[string]string{storage.KeyGoals: string(raw)})
	s := goals.New(kv, goals.WithClock(func() time.Time { return created }))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	first := s.CreateGoal("new", "work")
	if first.ID <= ahead {
		t.Fatalf("new id %d not above loaded id %d", first.ID, ahead)
	}
	second := s.CreateGoal("newer", "work")
	if second.ID <= first.ID {
		t.Errorf("second id %d not above first %d", second.ID, first.ID)
	}
}

func TestUnknownGoalIsNoOp(t *testing.T) {
	kv := storage.NewMemory(nil)
	s := newStore(t, kv)
	g := s.CreateGoal("keep", "work")
	before := storedGoals(t, kv)

	const missing = 999
	ops := map[string]func() error{
		"toggle":         func() error { return s.ToggleSubtask(missing, 0) },
		"start":          func() error { return s.StartWork(missing) },
		"complete":       func() error { return s.CompleteProject(missing) },
		"delete":         func() error { return s.DeleteProject(missing) },
		"update subtask": func() error { return s.UpdateSubtask(missing, 0, "x") },
		"add subtask":    func() error { return s.AddSubtask(missing) },
		"delete subtask": func() error { return s.DeleteSubtask(missing, 0) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, goals.ErrGoalNotFound) {
			t.Errorf("%s: error = %v, want ErrGoalNotFound", name, err)
		}
	}

	got, ok := s.Goal(g.ID)
	if !ok || got.Progress != 0 || got.IsStarted || got.IsCompleted || len(got.Subtasks) != 3 {
		t.Errorf("goal changed by unknown-id operations: %+v", got)
	}
	after := storedGoals(t, kv)
	if len(after) != len(before) {
		t.Errorf("persisted goals changed: %d -> %d", len(before), len(after))
	}
}

func TestSubtaskIndexOutOfRange(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("bounds", "work")

	for _, idx := range []int{-1, 3, 10} {
		if err := s.ToggleSubtask(g.ID, idx); !errors.Is(err, goals.ErrSubtaskIndex) {
			t.Errorf("ToggleSubtask(%d) error = %v, want ErrSubtaskIndex", idx, err)
		}
		if err := s.UpdateSubtask(g.ID, idx, "x"); !errors.Is(err, goals.ErrSubtaskIndex) {
			t.Errorf("UpdateSubtask(%d) error = %v, want ErrSubtaskIndex", idx, err)
		}
		if err := s.DeleteSubtask(g.ID, idx); !errors.Is(err, goals.ErrSubtaskIndex) {
			t.Errorf("DeleteSubtask(%d) error = %v, want ErrSubtaskIndex", idx, err)
		}
	}
	got, _ := s.Goal(g.ID)
	if len(got.Subtasks) != 3 {
		t.Errorf("subtasks = %d after rejected operations, want 3", len(got.Subtasks))
	}
}

func TestStartWorkIdempotent(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("start", "work")
	for i := 0; i < 2; i++ {
		if err := s.StartWork(g.ID); err != nil {
			t.Fatalf("StartWork #%d: %v", i+1, err)
		}
	}
	got, _ := s.Goal(g.ID)
	if !got.IsStarted {
		t.Error("IsStarted = false after StartWork")
	}
	if got.IsCompleted || got.Progress != 0 {
		t.Errorf("StartWork touched other fields: %+v", got)
	}
}

func TestUpdateSubtaskKeepsProgress(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("rename", "work")
	_ = s.ToggleSubtask(g.ID, 1)

	if err := s.UpdateSubtask(g.ID, 1, "Write docs"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Goal(g.ID)
	if got.Subtasks[1].Title != "Write docs" || !got.Subtasks[1].Completed {
		t.Errorf("subtask 1 = %+v", got.Subtasks[1])
	}
	if got.Progress != 33 {
		t.Errorf("progress = %d, want 33", got.Progress)
	}
}

func TestAddSubtaskNeverIncreasesProgress(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("grow", "work")
	_ = s.ToggleSubtask(g.ID, 0)
	_ = s.ToggleSubtask(g.ID, 1)
	_ = s.ToggleSubtask(g.ID, 2)

	prev := 100
	wants := []int{75, 60, 50, 43}
	for i, want := range wants {
		if err := s.AddSubtask(g.ID); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Goal(g.ID)
		if got.Progress > prev {
			t.Fatalf("add #%d: progress rose from %d to %d", i+1, prev, got.Progress)
		}
		if got.Progress != want {
			t.Errorf("add #%d: progress = %d, want %d", i+1, got.Progress, want)
		}
		last := got.Subtasks[len(got.Subtasks)-1]
		if last.Title != "" || last.Completed {
			t.Errorf("add #%d: new subtask = %+v, want blank", i+1, last)
		}
		prev = got.Progress
	}
}

func TestDeleteSubtaskRecomputes(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("shrink", "work")
	_ = s.UpdateSubtask(g.ID, 0, "a")
	_ = s.UpdateSubtask(g.ID, 1, "b")
	_ = s.UpdateSubtask(g.ID, 2, "c")
	_ = s.ToggleSubtask(g.ID, 0)

	if err := s.DeleteSubtask(g.ID, 1); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Goal(g.ID)
	if len(got.Subtasks) != 2 || got.Subtasks[0].Title != "a" || got.Subtasks[1].Title != "c" {
		t.Fatalf("subtasks = %+v, want [a c]", got.Subtasks)
	}
	if got.Progress != 50 {
		t.Errorf("progress = %d, want 50", got.Progress)
	}

	_ = s.DeleteSubtask(g.ID, 0)
	_ = s.DeleteSubtask(g.ID, 0)
	got, _ = s.Goal(g.ID)
	if len(got.Subtasks) != 0 || got.Progress != 0 {
		t.Errorf("after removing all: %d subtasks, progress %d; want 0, 0", len(got.Subtasks), got.Progress)
	}
}

func TestCompletedGoalStillRecomputes(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("done", "work")
	_ = s.CompleteProject(g.ID)

	if err := s.ToggleSubtask(g.ID, 2); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Goal(g.ID)
	if !got.IsCompleted {
		t.Error("IsCompleted cleared by subtask toggle")
	}
	if got.Progress != 67 {
		t.Errorf("progress = %d, want 67", got.Progress)
	}
}

func TestDeleteProjectAndFilter(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	w1 := s.CreateGoal("w1", "work")
	h1 := s.CreateGoal("h1", "health")
	w2 := s.CreateGoal("w2", "work")

	work := s.ProjectsForCategory("work")
	if len(work) != 2 || work[0].ID != w2.ID || work[1].ID != w1.ID {
		t.Fatalf("work goals = %+v, want [w2 w1]", work)
	}

	if err := s.DeleteProject(w2.ID); err != nil {
		t.Fatal(err)
	}
	for _, g := range s.ProjectsForCategory("work") {
		if g.ID == w2.ID {
			t.Fatal("deleted goal still listed")
		}
	}
	if _, ok := s.Goal(w2.ID); ok {
		t.Error("deleted goal still retrievable")
	}
	if got := s.ProjectsForCategory("health"); len(got) != 1 || got[0].ID != h1.ID {
		t.Errorf("health goals = %+v", got)
	}
	if got := s.ProjectsForCategory("family"); len(got) != 0 {
		t.Errorf("family goals = %+v, want none", got)
	}
}

func TestReturnedGoalsAreCopies(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	g := s.CreateGoal("copy", "work")

	listed := s.ProjectsForCategory("work")
	listed[0].Subtasks[0].Completed = true
	listed[0].Title = "mutated"

	got, _ := s.Goal(g.ID)
	if got.Subtasks[0].Completed || got.Title != "copy" {
		t.Errorf("store mutated through returned copy: %+v", got)
	}
}

func TestLoadFallsBackToSeed(t *testing.T) {
	seed := goals.DemoGoals()

	s := newStore(t, storage.NewMemory(nil), goals.WithSeed(seed))
	if got := len(s.Goals()); got != len(seed) {
		t.Errorf("absent data: %d goals, want %d seed goals", got, len(seed))
	}

	corrupt := storage.NewMemory(map[string]string{storage.KeyGoals: "{not json"})
	s = newStore(t, corrupt, goals.WithSeed(seed))
	if got := len(s.Goals()); got != len(seed) {
		t.Errorf("malformed data: %d goals, want %d seed goals", got, len(seed))
	}

	s = newStore(t, storage.NewMemory(nil))
	if got := len(s.Goals()); got != 0 {
		t.Errorf("no seed: %d goals, want 0", got)
	}
}

func TestLoadQuarantinesCorruptFile(t *testing.T) {
	kv := storage.NewFile(t.TempDir())
	if err := kv.Set(storage.KeyGoals, "[{broken"); err != nil {
		t.Fatal(err)
	}
	s := newStore(t, kv)
	if len(s.Goals()) != 0 {
		t.Fatalf("expected empty store after corrupt load")
	}
	if _, ok, _ := kv.Get(storage.KeyGoals); ok {
		t.Error("corrupt goals file was not moved aside")
	}
}

func TestPersistAcrossRestart(t *testing.T) {
	kv := storage.NewFile(t.TempDir())
	s := newStore(t, kv)
	g := s.CreateGoal("durable", "family")
	_ = s.ToggleSubtask(g.ID, 0)
	_ = s.UpdateSubtask(g.ID, 0, "Book hotel")

	restarted := newStore(t, kv, goals.WithSeed(goals.DemoGoals()))
	got, ok := restarted.Goal(g.ID)
	if !ok {
		t.Fatal("goal missing after restart")
	}
	if got.Progress != 33 || got.Subtasks[0].Title != "Book hotel" || got.DeskID != "family" {
		t.Errorf("rehydrated goal = %+v", got)
	}
	if n := len(restarted.Goals()); n != 1 {
		t.Errorf("rehydrated %d goals, want 1 (seed must not be mixed in)", n)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	kv := storage.NewMemory(nil)
	kv.FailWrites = true
	s := newStore(t, kv)

	g := s.CreateGoal("volatile", "work")
	if err := s.ToggleSubtask(g.ID, 0); err != nil {
		t.Fatalf("ToggleSubtask returned %v, persistence errors must be swallowed", err)
	}
	got, ok := s.Goal(g.ID)
	if !ok || got.Progress != 33 {
		t.Errorf("in-memory state lost after failed write: %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	s := newStore(t, storage.NewMemory(nil))
	a := s.CreateGoal("a", "work")
	b := s.CreateGoal("b", "work")
	s.CreateGoal("c", "health")
	_ = s.StartWork(a.ID)
	_ = s.ToggleSubtask(a.ID, 0)
	_ = s.CompleteProject(b.ID)

	sum := s.Summarize("work")
	want := goals.Summary{DeskID: "work", Total: 2, Started: 1, Completed: 1, MeanProgress: 67}
	if sum != want {
		t.Errorf("Summarize(work) = %+v, want %+v", sum, want)
	}
	if empty := s.Summarize("family"); empty.Total != 0 || empty.MeanProgress != 0 {
		t.Errorf("Summarize(family) = %+v, want zero counts", empty)
	}
}

func TestDemoGoalsProgressConsistent(t *testing.T) {
	for _, g := range goals.DemoGoals() {
		if want := goals.Progress(g.Subtasks); g.Progress != want {
			t.Errorf("demo goal %q progress = %d, want %d", g.Title, g.Progress, want)
		}
	}
}

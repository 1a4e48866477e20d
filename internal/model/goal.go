package model

// Subtask is a single checklist item owned by a Goal.
type Subtask struct {
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Goal is a user-authored objective. Progress is the rounded percentage of
// completed subtasks, except after completion where it is pinned at 100.
type Goal struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Date        string    `json:"date" yaml:"date"`
	Progress    int       `json:"progress" yaml:"progress"`
	IsStarted   bool      `json:"isStarted" yaml:"isStarted"`
	IsCompleted bool      `json:"isCompleted" yaml:"isCompleted"`
	DeskID      string    `json:"deskId" yaml:"deskId"`
	Subtasks    []Subtask `json:"subtasks" yaml:"subtasks"`
}

// Clone returns a deep copy so callers cannot mutate store-owned subtasks.
func (g Goal) Clone() Goal {
	c := g
	c.Subtasks = make([]Subtask, len(g.Subtasks))
	copy(c.Subtasks, g.Subtasks)
	return c
}

// CompletedCount returns how many subtasks are marked complete.
func (g Goal) CompletedCount() int {
	n := 0
	for _, s := range g.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

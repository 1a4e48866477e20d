package goals

import "github.com/Tiliavir/life-desks/internal/model"

// Progress returns round(100 * completed / total) with halves rounded up,
// or 0 for an empty list. Integer arithmetic keeps 50% boundaries exact.
func Progress(subtasks []model.Subtask) int {
	total := len(subtasks)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, t := range subtasks {
		if t.Completed {
			completed++
		}
	}
	return (200*completed + total) / (2 * total)
}

package goals

import "github.com/Tiliavir/life-desks/internal/model"

// DemoGoals returns the example goals shown on a fresh install.
func DemoGoals() []model.Goal {
	return []model.Goal{
		{
			ID: 1, Title: "Double blog engagement", Date: "Jan 15", Progress: 25, DeskID: "work",
			Subtasks: []model.Subtask{
				{Title: "Analyze current audience", Completed: true},
				{Title: "Create content plan"},
				{Title: "Set up analytics"},
				{Title: "Launch A/B tests"},
			},
		},
		{
			ID: 2, Title: "Launch new product", Date: "Feb 1", Progress: 50, DeskID: "work",
			Subtasks: []model.Subtask{
				{Title: "Market research", Completed: true},
				{Title: "MVP prototyping"},
			},
		},
		{
			ID: 3, Title: "Family vacation planning", Date: "Mar 1", Progress: 0, DeskID: "family",
			Subtasks: []model.Subtask{
				{Title: "Choose destination"},
				{Title: "Book flights"},
			},
		},
		{
			ID: 4, Title: "Run a marathon", Date: "Jun 1", Progress: 33, IsStarted: true, DeskID: "health",
			Subtasks: []model.Subtask{
				{Title: "Create training schedule", Completed: true},
				{Title: "Buy running shoes"},
				{Title: "Join running club"},
			},
		},
	}
}

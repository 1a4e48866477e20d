package model

// Desk is a user-selectable life category grouping goals.
type Desk struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Letter string `json:"letter" yaml:"letter"`
	Color  string `json:"color" yaml:"color"`
	Icon   string `json:"icon" yaml:"icon"`
}

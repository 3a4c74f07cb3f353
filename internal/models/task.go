package models

import "time"

type Task struct {
	ID        string
	ListID    string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaskPatch struct {
	Title     *string
	Completed *bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

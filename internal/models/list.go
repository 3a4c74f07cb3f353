package models

import "time"

type List struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListPatch struct {
	Title *string
}

func (p ListPatch) IsEmpty() bool {
	return p.Title == nil
}

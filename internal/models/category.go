package models

import "time"

type Category struct {
	ID            string
	Name          string
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
	CreatedByName string
}

type Department struct {
	ID            string
	Name          string
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
	CreatedByName string
}

// Field is an id/name pair for select inputs.
type Field struct {
	ID   string
	Name string
}

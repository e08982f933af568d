package domain

import "time"

// DefaultDeadlineMinutes is applied to issues submitted without a deadline.
const DefaultDeadlineMinutes = 120

type Issue struct {
	ID           string
	Title        string
	Body         string
	Register     string // business identifier, path separators stripped
	RegisterOrig string // register exactly as submitted, read-only
	Classifier   int
	Ugat         string // organizational unit codes
	Ugser        string
	Deadline     int // minutes
	Closed       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IssueGroup is one bucket of the grouped-issues aggregation.
type IssueGroup struct {
	Title  string
	Issues []Issue
}

package domain

import "time"

// Star is a single vote linking a voter and a comment.
type Star struct {
	ID        string
	Voter     string // stamped from the authenticated identity, read-only
	Comment   string
	Score     int
	CreatedAt time.Time
}

package domain

import "time"

// Comment origin channels.
const (
	OriginSC    = 0
	OriginSCCD  = 1
	OriginEmail = 2
)

// FallbackTitle is used when a comment resolves neither an issue nor a
// hashtag to title itself with.
const FallbackTitle = "no subject"

type Comment struct {
	ID        string
	Issue     string // optional issue reference
	Register  string // optional issue register, resolves the reference
	Author    string // stamped from the authenticated identity, read-only
	Title     string // derived, see hooks.CommentEnricher
	Body      string // submitted text rewritten with hashtag anchors
	Hashtags  []string
	Mentions  []string // reserved, currently unpopulated
	Origin    int
	Shottime  string   // derived elapsed-time indicator
	Stars     []string // star ids, appended by the star post-insert hook
	CreatedAt time.Time
	UpdatedAt time.Time
}

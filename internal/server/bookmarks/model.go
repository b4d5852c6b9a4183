package bookmarks

import "time"

type Bookmark struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Link        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Patch lists bookmark fields to change; nil fields are left as they are.
type Patch struct {
	Title       *string
	Description *string
	Link        *string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Link == nil
}

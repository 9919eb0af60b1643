package domain

import (
	"context"
	"time"
)

// DefaultColor is assigned to notes created without an explicit color.
const DefaultColor = "#FFD700"

// MaxTitleLength bounds note titles.
const MaxTitleLength = 100

// Note represents a sticky note pinned to a user's board.
type Note struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	Color     string // 7-char hex, e.g. "#FFD700"
	XPosition int
	YPosition int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteRepository defines persistence operations for notes. Operations that
// take a userID fold the ownership check into the query predicate, so a note
// owned by another user is indistinguishable from a missing one.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByIDForUser(ctx context.Context, id, userID int64) (*Note, error)
	ListByUser(ctx context.Context, userID int64) ([]Note, error)
	Update(ctx context.Context, note *Note) error
	UpdatePosition(ctx context.Context, id, userID int64, x, y int) error
	Delete(ctx context.Context, id, userID int64) error
}

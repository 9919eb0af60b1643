package service

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dstanton/corkboard/internal/domain"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NoteInput carries the submitted fields for creating or updating a note.
type NoteInput struct {
	Title   string
	Content string
	Color   string
	X       int
	Y       int
}

// NoteService handles note CRUD and validation. Every operation takes the
// calling user's ID; lookups and mutations are ownership-scoped all the way
// down, so another user's note is reported as not found.
type NoteService struct {
	notes domain.NoteRepository
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes domain.NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

// Create validates the input and persists a new note owned by userID.
// An empty color falls back to domain.DefaultColor.
func (s *NoteService) Create(ctx context.Context, userID int64, in NoteInput) (*domain.Note, error) {
	if err := validateNoteInput(&in); err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Color:     in.Color,
		XPosition: in.X,
		YPosition: in.Y,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// GetForUser returns the note with the given ID if userID owns it.
func (s *NoteService) GetForUser(ctx context.Context, id, userID int64) (*domain.Note, error) {
	return s.notes.GetByIDForUser(ctx, id, userID)
}

// ListByUser returns all notes owned by userID.
func (s *NoteService) ListByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// Update validates the input and overwrites the note's fields in place.
// Missing ID and ownership mismatch are both domain.ErrNotFound.
func (s *NoteService) Update(ctx context.Context, userID, id int64, in NoteInput) (*domain.Note, error) {
	if err := validateNoteInput(&in); err != nil {
		return nil, err
	}

	note := &domain.Note{
		ID:        id,
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Color:     in.Color,
		XPosition: in.X,
		YPosition: in.Y,
	}
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdatePosition moves a note on the canvas without touching any other
// field. Full-form validation is deliberately skipped: drag events only ever
// change coordinates.
func (s *NoteService) UpdatePosition(ctx context.Context, userID, id int64, x, y int) error {
	return s.notes.UpdatePosition(ctx, id, userID, x, y)
}

// Delete removes a note owned by userID.
func (s *NoteService) Delete(ctx context.Context, userID, id int64) error {
	return s.notes.Delete(ctx, id, userID)
}

func validateNoteInput(in *NoteInput) error {
	fields := make(map[string]string)

	if in.Title == "" {
		fields["title"] = "Title is required."
	} else if utf8.RuneCountInString(in.Title) > domain.MaxTitleLength {
		fields["title"] = fmt.Sprintf("Title must be at most %d characters.", domain.MaxTitleLength)
	}

	if in.Color == "" {
		in.Color = domain.DefaultColor
	} else if !colorPattern.MatchString(in.Color) {
		fields["color"] = "Color must be a hex value like #FFD700."
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

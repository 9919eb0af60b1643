package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dstanton/corkboard/internal/domain"
)

// NoteRepository implements domain.NoteRepository using SQLite. Every lookup
// and mutation that takes a userID matches on both id and user_id, so notes
// owned by other users behave exactly like missing rows.
type NoteRepository struct {
	db *sql.DB
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (user_id, title, content, color, x_position, y_position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.UserID, note.Title, note.Content, note.Color,
		note.XPosition, note.YPosition, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	note.ID = id
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

func (r *NoteRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Note, error) {
	n := &domain.Note{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, color, x_position, y_position, created_at, updated_at
		 FROM notes WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Color,
		&n.XPosition, &n.YPosition, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, color, x_position, y_position, created_at, updated_at
		 FROM notes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Color,
			&n.XPosition, &n.YPosition, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, color = ?, x_position = ?, y_position = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		note.Title, note.Content, note.Color, note.XPosition, note.YPosition, now,
		note.ID, note.UserID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	note.UpdatedAt = now
	return nil
}

// UpdatePosition mutates only the canvas coordinates, leaving title, content,
// and color untouched.
func (r *NoteRepository) UpdatePosition(ctx context.Context, id, userID int64, x, y int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET x_position = ?, y_position = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		x, y, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("update note position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM notes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

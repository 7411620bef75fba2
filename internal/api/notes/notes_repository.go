package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hdnotes/hd-notes-api/internal/api/auth"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

var _ NoteRepo = (*PostgresNoteRepo)(nil)

type NoteRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Note, error)
	Create(ctx context.Context, userID uuid.UUID, content string) (*Note, error)
	GetByID(ctx context.Context, noteID uuid.UUID) (*Note, error)
	Delete(ctx context.Context, noteID uuid.UUID) error
}

type PostgresNoteRepo struct {
	db     auth.DB
	logger *slog.Logger
}

func NewPostgresNoteRepo(db auth.DB, logger *slog.Logger) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db, logger: logger}
}

const noteColumns = "id, user_id, content, created_at, updated_at"

// ListByUser returns the user's notes newest-first.
func (r *PostgresNoteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Note, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

func (r *PostgresNoteRepo) Create(ctx context.Context, userID uuid.UUID, content string) (*Note, error) {
	var n Note
	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (user_id, content)
		 VALUES ($1, $2)
		 RETURNING `+noteColumns,
		userID, content).Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &n, nil
}

func (r *PostgresNoteRepo) GetByID(ctx context.Context, noteID uuid.UUID) (*Note, error) {
	var n Note
	err := r.db.QueryRow(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = $1",
		noteID).Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("note %s: %w", noteID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return &n, nil
}

func (r *PostgresNoteRepo) Delete(ctx context.Context, noteID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM notes WHERE id = $1", noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", noteID, types.ErrNotFound)
	}
	return nil
}

package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hdnotes/hd-notes-api/internal/types"
)

var _ NoteService = (*NoteServiceImpl)(nil)

type NoteService interface {
	ListNotes(ctx context.Context, userID uuid.UUID) ([]Note, error)
	CreateNote(ctx context.Context, userID uuid.UUID, content string) (*Note, error)
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error
}

type NoteServiceImpl struct {
	repo   NoteRepo
	logger *slog.Logger
}

func NewNoteService(repo NoteRepo, logger *slog.Logger) *NoteServiceImpl {
	return &NoteServiceImpl{repo: repo, logger: logger}
}

func (s *NoteServiceImpl) ListNotes(ctx context.Context, userID uuid.UUID) ([]Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NoteServiceImpl) CreateNote(ctx context.Context, userID uuid.UUID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("note content: %w", types.ErrBadRequest)
	}
	return s.repo.Create(ctx, userID, content)
}

// DeleteNote removes a note only when the caller owns it.
func (s *NoteServiceImpl) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return fmt.Errorf("note %s: %w", noteID, types.ErrForbidden)
	}
	return s.repo.Delete(ctx, noteID)
}

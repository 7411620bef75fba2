package notes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hdnotes/hd-notes-api/internal/api"
	"github.com/hdnotes/hd-notes-api/internal/api/auth"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

type Handler struct {
	noteService NoteService
	logger      *slog.Logger
}

func NewHandler(noteService NoteService, logger *slog.Logger) *Handler {
	return &Handler{
		noteService: noteService,
		logger:      logger,
	}
}

// callerID extracts the authenticated identity id set by the auth middleware.
func callerID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		logger.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.ErrorContext(r.Context(), "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListNotes"))

	userID, ok := callerID(w, r, l)
	if !ok {
		return
	}

	list, err := h.noteService.ListNotes(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list notes", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateNote"))

	userID, ok := callerID(w, r, l)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.noteService.CreateNote(ctx, userID, req.Content)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Note content cannot be empty")
			return
		}
		l.ErrorContext(ctx, "Failed to create note", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteNote"))

	userID, ok := callerID(w, r, l)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Note not found")
		return
	}

	if err := h.noteService.DeleteNote(ctx, userID, noteID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Note not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "User not authorized to delete this note")
		default:
			l.ErrorContext(ctx, "Failed to delete note", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hdnotes/hd-notes-api/internal/api"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

const dateOfBirthLayout = "2006-01-02"

type Handler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandler(authService AuthService, logger *slog.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Name == "" || req.DateOfBirth == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "All fields are required")
		return
	}
	dateOfBirth, err := time.Parse(dateOfBirthLayout, req.DateOfBirth)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "dateOfBirth must be in YYYY-MM-DD format")
		return
	}

	if err := h.authService.Signup(ctx, req.Name, req.Email, dateOfBirth); err != nil {
		l.ErrorContext(ctx, "Signup failed", slog.String("email", req.Email), slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "User with this email already exists")
		case errors.Is(err, types.ErrTooManyRequests):
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Please wait before requesting another OTP")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "OTP sent to your email. Please verify."})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.authService.Login(ctx, req.Email); err != nil {
		l.ErrorContext(ctx, "Login failed", slog.String("email", req.Email), slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, types.ErrTooManyRequests):
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Please wait before requesting another OTP")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "OTP sent to your email for login."})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "VerifyOTP"))

	var req VerifyOTPRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.OTP == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	token, user, err := h.authService.VerifyOTP(ctx, req.Email, req.OTP)
	if err != nil {
		l.WarnContext(ctx, "OTP verification failed", slog.String("email", req.Email), slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, types.ErrVerificationFailed):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or expired OTP")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{Token: token, User: user})
}

func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GoogleAuth"))

	var req GoogleAuthRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authService.GoogleAuth(ctx, req.Name, req.Email, req.GoogleID)
	if err != nil {
		l.ErrorContext(ctx, "Google auth failed", slog.String("email", req.Email), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{Token: token, User: user})
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/hdnotes/hd-notes-api/config"
	"github.com/hdnotes/hd-notes-api/internal/api/auth"
	"github.com/hdnotes/hd-notes-api/internal/api/notes"
	apiRouter "github.com/hdnotes/hd-notes-api/internal/router"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

// memUserRepo is an in-memory credential store for end-to-end tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by email
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*auth.User{}}
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) CreateUser(_ context.Context, name, email string, dateOfBirth time.Time) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, fmt.Errorf("user %s: %w", email, types.ErrConflict)
	}
	now := time.Now()
	u := &auth.User{ID: uuid.New(), Email: email, Name: name, DateOfBirth: dateOfBirth, CreatedAt: now, UpdatedAt: now}
	r.users[email] = u
	c := *u
	return &c, nil
}

func (r *memUserRepo) CreateExternalUser(_ context.Context, name, email, googleID string, dateOfBirth time.Time) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, fmt.Errorf("user %s: %w", email, types.ErrConflict)
	}
	now := time.Now()
	u := &auth.User{ID: uuid.New(), Email: email, Name: name, DateOfBirth: dateOfBirth, GoogleID: &googleID, CreatedAt: now, UpdatedAt: now}
	r.users[email] = u
	c := *u
	return &c, nil
}

func (r *memUserRepo) SetPendingOTP(_ context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			c := code
			e := expiresAt
			u.OTP = &c
			u.OTPExpiresAt = &e
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
}

func (r *memUserRepo) ClearPendingOTP(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.OTP = nil
			u.OTPExpiresAt = nil
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
}

// memNoteRepo is an in-memory note store preserving insertion order.
type memNoteRepo struct {
	mu    sync.Mutex
	notes []notes.Note
}

func (r *memNoteRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []notes.Note{}
	// newest-first: reverse insertion order
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].UserID == userID {
			list = append(list, r.notes[i])
		}
	}
	return list, nil
}

func (r *memNoteRepo) Create(_ context.Context, userID uuid.UUID, content string) (*notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	n := notes.Note{ID: uuid.New(), UserID: userID, Content: content, CreatedAt: now, UpdatedAt: now}
	r.notes = append(r.notes, n)
	return &n, nil
}

func (r *memNoteRepo) GetByID(_ context.Context, noteID uuid.UUID) (*notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.ID == noteID {
			c := n
			return &c, nil
		}
	}
	return nil, fmt.Errorf("note %s: %w", noteID, types.ErrNotFound)
}

func (r *memNoteRepo) Delete(_ context.Context, noteID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notes {
		if n.ID == noteID {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note %s: %w", noteID, types.ErrNotFound)
}

// captureSender records issued codes instead of sending mail.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *captureSender) SendOTP(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *captureSender) lastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

type E2ETestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	sender *captureSender
}

func (s *E2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	jwtCfg := config.JWTConfig{
		SecretKey: "e2e-test-secret",
		Issuer:    "hd-notes-api",
		TokenTTL:  7 * 24 * time.Hour,
	}

	userRepo := newMemUserRepo()
	noteRepo := &memNoteRepo{}
	s.sender = &captureSender{codes: map[string]string{}}

	otpEngine := auth.NewOTPEngine(userRepo, 10*time.Minute)
	limiter := auth.NewResendLimiter(30 * time.Second)
	authService := auth.NewAuthService(userRepo, otpEngine, s.sender, limiter, jwtCfg, logger)
	authHandler := auth.NewHandler(authService, logger)

	noteService := notes.NewNoteService(noteRepo, logger)
	notesHandler := notes.NewHandler(noteService, logger)

	mainRouter := apiRouter.SetupRouter(&apiRouter.Config{
		AuthHandler:            authHandler,
		NotesHandler:           notesHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, jwtCfg),
		AllowedOrigins:         []string{"http://localhost:5173"},
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.StripSlashes)
	r.Mount("/", mainRouter)

	s.server = httptest.NewServer(r)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *E2ETestSuite) request(method, path, token string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, out
}

func (s *E2ETestSuite) TestSignupVerifyNotesFlow() {
	// signup creates a pending identity and mails a code
	status, _ := s.request(http.MethodPost, "/auth/signup", "",
		map[string]string{"email": "a@x.com", "name": "A", "dateOfBirth": "2000-01-01"})
	s.Equal(http.StatusOK, status)
	code := s.sender.lastCode("a@x.com")
	s.Len(code, 6)

	// duplicate signup conflicts and does not reissue
	status, _ = s.request(http.MethodPost, "/auth/signup", "",
		map[string]string{"email": "a@x.com", "name": "B", "dateOfBirth": "1999-12-31"})
	s.Equal(http.StatusConflict, status)
	s.Equal(code, s.sender.lastCode("a@x.com"))

	// login for an unknown email never creates an identity
	status, _ = s.request(http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@x.com"})
	s.Equal(http.StatusNotFound, status)

	// resend within the cooldown window is throttled
	status, _ = s.request(http.MethodPost, "/auth/login", "", map[string]string{"email": "a@x.com"})
	s.Equal(http.StatusTooManyRequests, status)

	// wrong code is rejected without leaking why
	status, body := s.request(http.MethodPost, "/auth/verify-otp", "",
		map[string]string{"email": "a@x.com", "otp": "000000"})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "Invalid or expired OTP")

	// correct code yields a session token
	status, body = s.request(http.MethodPost, "/auth/verify-otp", "",
		map[string]string{"email": "a@x.com", "otp": code})
	s.Require().Equal(http.StatusOK, status)

	var verified struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(body, &verified))
	s.NotEmpty(verified.Token)
	s.Equal("A", verified.User.Name)
	s.Equal("a@x.com", verified.User.Email)

	// the code is single-use
	status, _ = s.request(http.MethodPost, "/auth/verify-otp", "",
		map[string]string{"email": "a@x.com", "otp": code})
	s.Equal(http.StatusBadRequest, status)

	// notes require a token
	status, _ = s.request(http.MethodGet, "/notes", "", nil)
	s.Equal(http.StatusUnauthorized, status)
	status, _ = s.request(http.MethodGet, "/notes", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, status)

	// fresh account starts with an empty list
	status, body = s.request(http.MethodGet, "/notes", verified.Token, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq("[]", string(body))

	status, body = s.request(http.MethodPost, "/notes", verified.Token, map[string]string{"content": "hi"})
	s.Require().Equal(http.StatusCreated, status)

	var created struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal("hi", created.Content)

	status, _ = s.request(http.MethodPost, "/notes", verified.Token, map[string]string{"content": ""})
	s.Equal(http.StatusBadRequest, status)

	// a second identity via the federated path
	status, body = s.request(http.MethodPost, "/auth/google", "",
		map[string]string{"name": "G", "email": "g@x.com", "googleId": "google-123"})
	s.Require().Equal(http.StatusOK, status)

	var other struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &other))
	s.NotEmpty(other.Token)

	// only the owner may delete a note
	status, _ = s.request(http.MethodDelete, "/notes/"+created.ID, other.Token, nil)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.request(http.MethodDelete, "/notes/"+created.ID, verified.Token, nil)
	s.Equal(http.StatusOK, status)

	status, _ = s.request(http.MethodDelete, "/notes/"+created.ID, verified.Token, nil)
	s.Equal(http.StatusNotFound, status)

	status, body = s.request(http.MethodGet, "/notes", verified.Token, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq("[]", string(body))
}

func (s *E2ETestSuite) TestListIsNewestFirst() {
	status, _ := s.request(http.MethodPost, "/auth/google", "",
		map[string]string{"name": "L", "email": "l@x.com", "googleId": "google-l"})
	s.Require().Equal(http.StatusOK, status)

	_, body := s.request(http.MethodPost, "/auth/google", "",
		map[string]string{"name": "L", "email": "l@x.com", "googleId": "google-l"})
	var signedIn struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &signedIn))

	for _, content := range []string{"first", "second", "third"} {
		status, _ = s.request(http.MethodPost, "/notes", signedIn.Token, map[string]string{"content": content})
		s.Require().Equal(http.StatusCreated, status)
	}

	status, body = s.request(http.MethodGet, "/notes", signedIn.Token, nil)
	s.Require().Equal(http.StatusOK, status)

	var list []struct {
		Content string `json:"content"`
	}
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list, 3)
	s.Equal("third", list[0].Content)
	s.Equal("first", list[2].Content)
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

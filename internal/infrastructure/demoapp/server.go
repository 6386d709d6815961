// Package demoapp is a small Conduit-compatible application: the sign-up,
// sign-in and settings views of the RealWorld demo backed by an in-memory
// user store. The suite starts it when no BASE_URL is configured.
package demoapp

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"conduit-e2e/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

//go:embed static
var static embed.FS

const (
	SeedUsername = "testuser"
	SeedEmail    = "test@example.com"
	SeedPassword = "password123"
)

type Options struct {
	// Seed registers SeedUsername/SeedEmail/SeedPassword at start-up.
	Seed       bool
	BcryptCost int
	TokenTTL   time.Duration
	// AccessLog receives httplog's JSON request lines; nil discards them.
	AccessLog io.Writer
}

type Server struct {
	store  *Store
	tokens *TokenService
	router chi.Router
	logger output.LoggerPort
}

func New(opts Options, logger output.LoggerPort) (*Server, error) {
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.AccessLog == nil {
		opts.AccessLog = io.Discard
	}

	tokens, err := NewTokenService(opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:  NewStore(opts.BcryptCost),
		tokens: tokens,
		logger: logger,
	}
	if opts.Seed {
		if _, err := s.store.Register(SeedUsername, SeedEmail, SeedPassword); err != nil {
			return nil, err
		}
	}

	accessLog := httplog.NewLogger("conduit-demo", httplog.Options{JSON: true, Concise: true}).Output(opts.AccessLog)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleIndex)
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)
		api.Post("/users", s.handleRegister)
		api.Post("/users/login", s.handleLogin)
		api.Get("/user", s.handleCurrentUser)
	})
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Store() *Store {
	return s.store
}

// Serve runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("demo app listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type userEnvelope struct {
	User userPayload `json:"user"`
}

type userPayload struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

type errorEnvelope struct {
	Errors FieldErrors `json:"errors"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "users": s.store.Len()})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: FieldErrors{"body": {"is invalid"}}})
		return
	}

	u, err := s.store.Register(req.User.Username, req.User.Email, req.User.Password)
	var fieldErrs FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		s.logger.Debug("registration rejected", "errors", fieldErrs.Error())
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: fieldErrs})
		return
	case err != nil:
		s.logger.Error("registration failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("user registered", "username", u.Username)
	s.respondWithUser(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req userEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: FieldErrors{"body": {"is invalid"}}})
		return
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.User.Email) == "" {
		errs.add("email", "can't be blank")
	}
	if req.User.Password == "" {
		errs.add("password", "can't be blank")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: errs})
		return
	}

	u, err := s.store.Authenticate(req.User.Email, req.User.Password)
	if err != nil {
		s.logger.Debug("login rejected", "email", req.User.Email)
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: FieldErrors{"email or password": {"is invalid"}}})
		return
	}
	s.respondWithUser(w, http.StatusOK, u)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")
	if !ok || raw == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := s.tokens.Validate(raw)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	u, ok := s.store.Get(id)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	s.respondWithUser(w, http.StatusOK, u)
}

func (s *Server) respondWithUser(w http.ResponseWriter, status int, u *User) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, userEnvelope{User: userPayload{
		Username: u.Username,
		Email:    u.Email,
		Token:    token,
		Bio:      u.Bio,
		Image:    u.Image,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

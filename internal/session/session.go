// package session holds the client's credential and the identity derived from it.
//
// A [Store] is created once per process and passed to whatever needs it. Every token change
// bumps a generation counter; identity responses issued under an older generation are dropped,
// so the latest token always wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Recorder receives session transitions for the local history.
type Recorder interface {
	Record(kind models.SessionEventKind, username string) error
}

// Store is the session: an optional bearer token, the identity validated for it, and a loading flag.
//
// Identity is non-nil only while a token is held and the backend accepted it.
type Store struct {
	api      services.AuthAPI
	tokens   TokenStore
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time

	mu         sync.Mutex
	token      string
	identity   *models.Identity
	inFlight   int
	generation uint64
	lastErr    error
}

// New creates an anonymous [Store]. Call [Store.Init] to pick up a persisted token.
func New(api services.AuthAPI, tokens TokenStore) *Store {
	return &Store{
		api:    api,
		tokens: tokens,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
}

// WithLogger sets the logger for session transitions.
func (s *Store) WithLogger(l *log.Logger) *Store {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithRecorder records every transition to r.
func (s *Store) WithRecorder(r Recorder) *Store {
	s.recorder = r
	return s
}

// WithClock overrides the clock used for token expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Init loads the persisted token and validates it against the backend.
//
// Only a storage failure is returned; an invalid token leaves the session anonymous.
func (s *Store) Init(ctx context.Context) error {
	token, err := s.tokens.LoadToken()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return nil
	}

	s.SetToken(ctx, token)
	return nil
}

// SetToken replaces the token, persists it, and refreshes the identity for it.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	s.replaceTokenLocked(token)
	s.mu.Unlock()

	s.Refresh(ctx)
}

// Login exchanges credentials for a token. It reports failure as false; see [Store.LastError].
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.begin()
	token, err := s.api.Login(ctx, username, password)
	s.end()

	if err != nil {
		s.mu.Lock()
		s.replaceTokenLocked("")
		s.lastErr = err
		s.mu.Unlock()

		s.logger.Warn("login failed", "username", username, "error", err)
		s.record(models.EventLoginFailed, username)
		return false
	}

	s.mu.Lock()
	s.replaceTokenLocked(token)
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info("logged in", "username", username)
	s.record(models.EventLogin, username)

	s.Refresh(ctx)
	return true
}

// Register creates an account without logging in. Role defaults to "user".
func (s *Store) Register(ctx context.Context, username, password, role string) bool {
	if role == "" {
		role = models.RoleUser
	}

	s.begin()
	err := s.api.Register(ctx, models.Registration{Username: username, Password: password, Role: role})
	s.end()

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("registration failed", "username", username, "error", err)
		return false
	}

	s.logger.Info("registered", "username", username, "role", role)
	s.record(models.EventRegister, username)
	return true
}

// Logout clears the token, the identity and the persisted token. It never calls the backend.
func (s *Store) Logout() {
	s.mu.Lock()
	var username string
	if s.identity != nil {
		username = s.identity.Username
	}
	s.replaceTokenLocked("")
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info("logged out", "username", username)
	s.record(models.EventLogout, username)
}

// Refresh fetches the identity for the current token.
//
// A 401 or 403 (or an already expired JWT) clears the token too. Any other failure clears only the identity.
// Responses that arrive after the token changed are discarded.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	token, gen := s.token, s.generation
	if token == "" {
		s.identity = nil
		s.mu.Unlock()
		return
	}

	if tokenExpired(token, s.now()) {
		s.invalidateLocked(fmt.Errorf("%w: exp claim is in the past", shared.ErrTokenExpired))
		s.mu.Unlock()
		s.record(models.EventInvalidated, "")
		return
	}

	s.inFlight++
	s.mu.Unlock()

	identity, err := s.api.Me(ctx, token)

	s.mu.Lock()
	s.inFlight--

	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale identity response", "generation", gen)
		return
	}

	switch {
	case err == nil:
		s.identity = identity
		s.mu.Unlock()
		s.logger.Debug("identity refreshed", "username", identity.Username, "role", identity.Role)
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrForbidden):
		s.invalidateLocked(err)
		s.mu.Unlock()
		s.logger.Warn("token rejected", "error", err)
		s.record(models.EventInvalidated, "")
	default:
		s.identity = nil
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("identity refresh failed", "error", err)
	}
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns a copy of the validated identity, or nil.
func (s *Store) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Authenticated reports whether a validated identity is held.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// Loading reports whether a login, registration or identity fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// LastError is the reason the most recent login, registration or refresh failed, or nil.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// replaceTokenLocked swaps the token, drops the identity and mirrors the change to storage.
func (s *Store) replaceTokenLocked(token string) {
	s.generation++
	s.token = token
	s.identity = nil

	var err error
	if token == "" {
		err = s.tokens.ClearToken()
	} else {
		err = s.tokens.SaveToken(token)
	}
	if err != nil {
		s.logger.Error("failed to persist token", "error", err)
	}
}

func (s *Store) invalidateLocked(reason error) {
	s.replaceTokenLocked("")
	s.lastErr = reason
}

func (s *Store) record(kind models.SessionEventKind, username string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(kind, username); err != nil {
		s.logger.Warn("failed to record session event", "kind", kind, "error", err)
	}
}

// tokenExpired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens and JWTs without exp are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

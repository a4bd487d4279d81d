// package favorites tracks which movies the signed-in user has marked and keeps the backend in step.
package favorites

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/shared"
)

// Status is the outcome of a favorites mutation.
type Status int

const (
	StatusOK      Status = iota // backend accepted the change and local state follows it
	StatusFailed                // backend call failed; local state is unchanged
	StatusSkipped               // anonymous session; nothing was sent
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result reports what a mutation did. Added is true when the movie became a favorite.
type Result struct {
	Status Status
	Added  bool
	Err    error
}

// OK reports a successful mutation.
func (r Result) OK() bool { return r.Status == StatusOK }

// TokenSource supplies the current bearer token; "" means anonymous.
type TokenSource interface {
	Token() string
}

// Set is the local mirror of the user's favorites.
//
// Mutations on the same movie id never overlap. Different ids proceed in parallel.
type Set struct {
	api     services.FavoritesAPI
	session TokenSource
	logger  *log.Logger
	locks   keyedMutex

	mu    sync.Mutex
	ids   map[int]struct{}
	films []models.FavoriteFilm
}

// New creates an empty [Set].
func New(api services.FavoritesAPI, session TokenSource) *Set {
	return &Set{
		api:     api,
		session: session,
		logger:  log.New(io.Discard),
		locks:   keyedMutex{entries: map[int]*keyedEntry{}},
		ids:     map[int]struct{}{},
	}
}

// WithLogger sets the logger for mutation failures.
func (s *Set) WithLogger(l *log.Logger) *Set {
	if l != nil {
		s.logger = l
	}
	return s
}

// Toggle removes movieID if it is a favorite and adds it otherwise.
//
// Local state changes only after the backend call succeeds.
func (s *Set) Toggle(ctx context.Context, movieID int) Result {
	token := s.session.Token()
	if token == "" {
		return Result{Status: StatusSkipped, Err: shared.ErrNotAuthenticated}
	}

	unlock := s.locks.lock(movieID)
	defer unlock()

	if s.Contains(movieID) {
		if err := s.api.RemoveFavorite(ctx, token, movieID); err != nil {
			s.logger.Warn("failed to remove favorite", "movie", movieID, "error", err)
			return Result{Status: StatusFailed, Err: err}
		}
		s.apply(token, movieID, false)
		return Result{Status: StatusOK}
	}

	if err := s.api.AddFavorite(ctx, token, movieID); err != nil {
		s.logger.Warn("failed to add favorite", "movie", movieID, "error", err)
		return Result{Status: StatusFailed, Err: err}
	}
	s.apply(token, movieID, true)
	return Result{Status: StatusOK, Added: true}
}

// Remove unfavorites movieID, dropping it from both the id set and the film list together.
func (s *Set) Remove(ctx context.Context, movieID int) Result {
	token := s.session.Token()
	if token == "" {
		return Result{Status: StatusSkipped, Err: shared.ErrNotAuthenticated}
	}

	unlock := s.locks.lock(movieID)
	defer unlock()

	if err := s.api.RemoveFavorite(ctx, token, movieID); err != nil {
		s.logger.Warn("failed to remove favorite", "movie", movieID, "error", err)
		return Result{Status: StatusFailed, Err: err}
	}
	s.apply(token, movieID, false)
	return Result{Status: StatusOK}
}

// Reconcile replaces local state with the backend's favorites list. Anonymous sessions are cleared.
func (s *Set) Reconcile(ctx context.Context) error {
	token := s.session.Token()
	if token == "" {
		s.Clear()
		return nil
	}

	films, err := s.api.Favorites(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ids := make(map[int]struct{}, len(films))
	for _, f := range films {
		ids[f.ID] = struct{}{}
	}

	s.mu.Lock()
	s.ids = ids
	s.films = films
	s.mu.Unlock()

	return nil
}

// Contains reports whether movieID is a favorite.
func (s *Set) Contains(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[movieID]
	return ok
}

// IDs returns the favorite ids in ascending order.
func (s *Set) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Films returns the film list from the last [Set.Reconcile], less any removals since.
func (s *Set) Films() []models.FavoriteFilm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.films)
}

// Clear drops all local state. Called on logout.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = map[int]struct{}{}
	s.films = nil
}

// apply records a successful mutation unless the session changed while the call was in flight.
func (s *Set) apply(token string, movieID int, added bool) {
	if s.session.Token() != token {
		s.logger.Debug("session changed during favorite update, not applying", "movie", movieID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if added {
		s.ids[movieID] = struct{}{}
		return
	}

	delete(s.ids, movieID)
	s.films = slices.DeleteFunc(s.films, func(f models.FavoriteFilm) bool { return f.ID == movieID })
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// keyedMutex hands out one mutex per movie id and forgets it once nobody holds or waits on it.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[int]*keyedEntry
}

func (k *keyedMutex) lock(id int) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[id]
	if !ok {
		e = &keyedEntry{}
		k.entries[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, id)
		}
		k.mu.Unlock()
	}
}

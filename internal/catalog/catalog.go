// package catalog holds the in-memory snapshot of the movie catalog and genre list.
package catalog

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
	"golang.org/x/sync/errgroup"
)

// Cache fetches movies and genres once and serves the snapshot afterwards.
//
// A failed movie fetch is terminal for the cache: later calls to [Cache.Load] return the same error.
// A load cut short by its context is not cached and the next call fetches again.
// A failed genre fetch degrades the genre list to just [models.AllGenres].
type Cache struct {
	api    services.CatalogAPI
	logger *log.Logger

	mu     sync.Mutex
	loaded bool
	err    error
	movies []models.Movie
	genres []string
	byID   map[int]int
}

// New creates an empty [Cache] backed by api.
func New(api services.CatalogAPI) *Cache {
	return &Cache{api: api, logger: log.New(io.Discard)}
}

// WithLogger sets the logger for fetch warnings.
func (c *Cache) WithLogger(l *log.Logger) *Cache {
	if l != nil {
		c.logger = l
	}
	return c
}

// Load fetches movies and genres concurrently on the first call. Later calls return the first result.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.err
	}

	var (
		movies []models.Movie
		genres []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := c.api.Movies(gctx)
		if err != nil {
			return fmt.Errorf("failed to load movies: %w", err)
		}
		movies = m
		return nil
	})
	g.Go(func() error {
		gs, err := c.api.Genres(gctx)
		if err != nil {
			c.logger.Warn("genre list unavailable, offering All only", "error", err)
			return nil
		}
		genres = gs
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return err
		}
		c.loaded = true
		c.err = err
		return err
	}
	c.loaded = true

	c.movies = movies
	c.genres = append([]string{models.AllGenres}, slices.DeleteFunc(genres, func(name string) bool {
		return name == models.AllGenres || name == ""
	})...)
	c.byID = make(map[int]int, len(movies))
	for i, m := range movies {
		c.byID[m.ID] = i
	}

	c.logger.Debug("catalog loaded", "movies", len(movies), "genres", len(c.genres)-1)
	return nil
}

// Movies returns a copy of the catalog snapshot, empty before a successful [Cache.Load].
func (c *Cache) Movies() []models.Movie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.movies)
}

// Genres returns ["All", ...server genres]. Before a successful load it is just ["All"].
func (c *Cache) Genres() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.genres) == 0 {
		return []string{models.AllGenres}
	}
	return slices.Clone(c.genres)
}

// Find returns the movie with id.
func (c *Cache) Find(id int) (models.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.byID[id]
	if !ok {
		return models.Movie{}, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	return c.movies[i], nil
}

// Err is the load failure, if any.
func (c *Cache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

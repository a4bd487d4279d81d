package catalog

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/shared"
	tu "github.com/desertthunder/filmax/internal/testing"
)

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(4), []string{"Comedy", "Drama"})
		c := New(services.NewAPIService(backend.URL(), nil))

		if err := c.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if got := c.Movies(); len(got) != 4 {
			t.Errorf("expected 4 movies, got %d", len(got))
		}
		genres := c.Genres()
		if len(genres) != 3 || genres[0] != models.AllGenres || genres[1] != "Comedy" {
			t.Errorf("unexpected genres %v", genres)
		}
	})

	t.Run("Fetched Once", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(2), nil)
		c := New(services.NewAPIService(backend.URL(), nil))

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Load(ctx)
			}()
		}
		wg.Wait()

		if hits := backend.Hits("GET /json/movies"); hits != 1 {
			t.Errorf("expected one movie fetch, got %d", hits)
		}
	})

	t.Run("Genre Failure Degrades", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(2), []string{"Drama"})
		backend.Fail("GET /json/genres", http.StatusInternalServerError)
		c := New(services.NewAPIService(backend.URL(), nil))

		if err := c.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if genres := c.Genres(); len(genres) != 1 || genres[0] != models.AllGenres {
			t.Errorf("expected [All], got %v", genres)
		}
		if len(c.Movies()) != 2 {
			t.Error("movies should still load")
		}
	})

	t.Run("Movie Failure Is Terminal", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(2), nil)
		backend.Fail("GET /json/movies", http.StatusBadGateway)
		c := New(services.NewAPIService(backend.URL(), nil))

		err := c.Load(ctx)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}

		backend.Fail("GET /json/movies", 0)
		if err := c.Load(ctx); err == nil {
			t.Error("expected cached failure on second load")
		}
		if c.Err() == nil || len(c.Movies()) != 0 {
			t.Error("expected empty snapshot with error")
		}
	})

	t.Run("Canceled Load Retries", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(3), nil)
		c := New(services.NewAPIService(backend.URL(), nil))

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if err := c.Load(canceled); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if c.Err() != nil {
			t.Errorf("canceled load should not be cached, got %v", c.Err())
		}

		if err := c.Load(ctx); err != nil {
			t.Fatalf("Load() after cancel error = %v", err)
		}
		if len(c.Movies()) != 3 {
			t.Errorf("expected 3 movies, got %d", len(c.Movies()))
		}
	})

	t.Run("Find", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(3), nil)
		c := New(services.NewAPIService(backend.URL(), nil))
		c.Load(ctx)

		m, err := c.Find(2)
		if err != nil || m.Title != "Movie 002" {
			t.Errorf("Find(2) = %v, %v", m, err)
		}
		if _, err := c.Find(99); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("Snapshot Is A Copy", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(1), nil)
		c := New(services.NewAPIService(backend.URL(), nil))
		c.Load(ctx)

		c.Movies()[0].Title = "changed"
		if c.Movies()[0].Title != "Movie 001" {
			t.Error("mutating the returned slice leaked into the cache")
		}
	})
}

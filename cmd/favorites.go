package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/filmax/internal/favorites"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the logged-in user's favorites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadFavorites(ctx); err != nil {
		return err
	}

	films := r.favorites.Films()
	if cmd.Bool("json") {
		return r.writeJSON(films, cmd.Bool("pretty"))
	}

	if len(films) == 0 {
		return r.writePlain("No favorites yet\n")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(films)))
	for _, f := range films {
		if f.Year == 0 {
			r.writePlain("%5d  %s\n", f.ID, f.Title)
		} else {
			r.writePlain("%5d  %s (%d)\n", f.ID, f.Title, f.Year)
		}
	}
	return nil
}

// FavoritesAdd adds a movie unless it already is a favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadFavorites(ctx); err != nil {
		return err
	}

	if r.favorites.Contains(id) {
		return r.writePlain("Movie %d is already a favorite\n", id)
	}
	return r.reportFavorite(id, r.favorites.Toggle(ctx, id))
}

// FavoritesRemove removes a movie from the favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadFavorites(ctx); err != nil {
		return err
	}

	if !r.favorites.Contains(id) {
		return r.writePlain("Movie %d is not a favorite\n", id)
	}
	return r.reportFavorite(id, r.favorites.Remove(ctx, id))
}

// FavoritesToggle flips a movie's membership.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadFavorites(ctx); err != nil {
		return err
	}

	return r.reportFavorite(id, r.favorites.Toggle(ctx, id))
}

func (r *Runner) loadFavorites(ctx context.Context) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	if err := r.favorites.Reconcile(ctx); err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	return nil
}

func (r *Runner) reportFavorite(id int, res favorites.Result) error {
	switch res.Status {
	case favorites.StatusSkipped:
		return shared.ErrNotAuthenticated
	case favorites.StatusFailed:
		return fmt.Errorf("failed to update favorite %d: %w", id, res.Err)
	}

	if res.Added {
		return r.writePlain("★ Added movie %d to favorites\n", id)
	}
	return r.writePlain("☆ Removed movie %d from favorites\n", id)
}

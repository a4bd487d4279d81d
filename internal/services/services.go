// package services defines the interfaces and HTTP client for the Filmax backend
package services

import (
	"context"

	"github.com/desertthunder/filmax/internal/models"
)

// CatalogAPI fetches the public catalog.
type CatalogAPI interface {
	Movies(ctx context.Context) ([]models.Movie, error)
	Genres(ctx context.Context) ([]string, error)
}

// AuthAPI covers account creation, login and identity lookup.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, reg models.Registration) error

	// Me returns the identity the token belongs to.
	Me(ctx context.Context, token string) (*models.Identity, error)
}

// FavoritesAPI reads and mutates the authenticated user's favorites.
type FavoritesAPI interface {
	Favorites(ctx context.Context, token string) ([]models.FavoriteFilm, error)
	AddFavorite(ctx context.Context, token string, movieID int) error
	RemoveFavorite(ctx context.Context, token string, movieID int) error
}

// Backend is everything the client consumes from the Filmax backend.
type Backend interface {
	CatalogAPI
	AuthAPI
	FavoritesAPI
	AdminOnly(ctx context.Context, token string) (*APIResponse, error)
}

var _ Backend = (*APIService)(nil)

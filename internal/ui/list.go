package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/filmax/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = favoriteItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := i.movie.YearString()
	if i.movie.Director != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.Director)
	}
	if len(i.movie.Genres) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(i.movie.Genres, ", "))
	}
	return desc
}

// favoriteItem wraps [models.FavoriteFilm] to implement [list.Item].
type favoriteItem struct {
	film models.FavoriteFilm
}

func (i favoriteItem) FilterValue() string { return i.film.Title }
func (i favoriteItem) Title() string       { return i.film.Title }
func (i favoriteItem) Description() string {
	if i.film.Year == 0 {
		return fmt.Sprintf("#%d", i.film.ID)
	}
	return fmt.Sprintf("#%d • %d", i.film.ID, i.film.Year)
}

package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	PlaceholderPoster  = "https://via.placeholder.com/220x320/181818/e50914?text=No+Poster"
	PlaceholderTrailer = "https://www.youtube.com/embed/dQw4w9WgXcQ"
)

// Movie is a read-only catalog entry. Zero values mean the field was absent.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
	Category    string   `json:"category,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Runtime     string   `json:"runtime,omitempty"`
	Actors      string   `json:"actors,omitempty"`
}

// wireMovie accepts every field spelling the backend is known to emit.
type wireMovie struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Year        json.RawMessage `json:"year"`
	Description string          `json:"description"`
	Plot        string          `json:"plot"`
	Director    string          `json:"director"`
	Rating      *float64        `json:"rating"`
	PosterCamel string          `json:"posterUrl"`
	PosterSnake string          `json:"poster_url"`
	TrailerURL  string          `json:"trailer_url"`
	Trailer     string          `json:"trailer"`
	Category    string          `json:"category"`
	Genres      []string        `json:"genres"`
	Runtime     json.RawMessage `json:"runtime"`
	Actors      string          `json:"actors"`
}

// UnmarshalJSON decodes a movie from either the catalog JSON file layout or the database schema layout.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var w wireMovie
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Movie{
		ID:          w.ID,
		Title:       w.Title,
		Year:        parseLooseInt(w.Year),
		Description: firstNonEmpty(w.Description, w.Plot),
		Director:    w.Director,
		PosterURL:   firstNonEmpty(w.PosterCamel, w.PosterSnake),
		TrailerURL:  firstNonEmpty(w.TrailerURL, w.Trailer),
		Category:    w.Category,
		Genres:      w.Genres,
		Runtime:     rawString(w.Runtime),
		Actors:      w.Actors,
	}
	if w.Rating != nil {
		m.Rating = *w.Rating
	}

	return nil
}

// PosterOrPlaceholder returns the poster URL, or the placeholder image when the movie has none.
func (m Movie) PosterOrPlaceholder() string {
	if m.PosterURL == "" {
		return PlaceholderPoster
	}
	return m.PosterURL
}

// TrailerOrPlaceholder returns the trailer URL, or the placeholder embed when the movie has none.
func (m Movie) TrailerOrPlaceholder() string {
	if m.TrailerURL == "" {
		return PlaceholderTrailer
	}
	return m.TrailerURL
}

// HasGenre reports whether genre is one of the movie's genres. Movies without genres match nothing.
func (m Movie) HasGenre(genre string) bool {
	return slices.Contains(m.Genres, genre)
}

// YearString renders the release year, or "n/a" when missing.
func (m Movie) YearString() string {
	if m.Year == 0 {
		return "n/a"
	}
	return strconv.Itoa(m.Year)
}

func (m Movie) String() string {
	return fmt.Sprintf("#%d %s (%s)", m.ID, m.Title, m.YearString())
}

// parseLooseInt reads a JSON number or numeric string; anything else yields 0.
func parseLooseInt(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}

	return 0
}

// rawString renders a JSON string or number as text.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package models

import (
	"encoding/json"
	"testing"
)

func TestMovieUnmarshal(t *testing.T) {
	tc := []struct {
		name string
		data string
		want Movie
	}{
		{
			name: "catalog file layout",
			data: `{"id":1,"title":"Beetlejuice","year":"1988","runtime":"92","genres":["Comedy","Fantasy"],
				"director":"Tim Burton","actors":"Alec Baldwin, Geena Davis","plot":"A couple of recently deceased ghosts.",
				"posterUrl":"https://img.example/bj.jpg"}`,
			want: Movie{
				ID: 1, Title: "Beetlejuice", Year: 1988, Runtime: "92", Genres: []string{"Comedy", "Fantasy"},
				Director: "Tim Burton", Actors: "Alec Baldwin, Geena Davis",
				Description: "A couple of recently deceased ghosts.", PosterURL: "https://img.example/bj.jpg",
			},
		},
		{
			name: "database layout",
			data: `{"id":2,"title":"Alien","year":1979,"description":"In space.","rating":8.5,
				"poster_url":"https://img.example/alien.jpg","trailer_url":"https://www.youtube.com/embed/abc","category":"Horror"}`,
			want: Movie{
				ID: 2, Title: "Alien", Year: 1979, Description: "In space.", Rating: 8.5,
				PosterURL: "https://img.example/alien.jpg", TrailerURL: "https://www.youtube.com/embed/abc", Category: "Horror",
			},
		},
		{
			name: "trailer alias and bad year",
			data: `{"id":3,"title":"Heat","year":"unknown","trailer":"https://www.youtube.com/embed/xyz"}`,
			want: Movie{ID: 3, Title: "Heat", TrailerURL: "https://www.youtube.com/embed/xyz"},
		},
		{
			name: "null year and numeric runtime",
			data: `{"id":4,"title":"Up","year":null,"runtime":96}`,
			want: Movie{ID: 4, Title: "Up", Runtime: "96"},
		},
		{
			name: "camelCase poster wins",
			data: `{"id":5,"title":"Ran","posterUrl":"a","poster_url":"b","description":"d","plot":"p"}`,
			want: Movie{ID: 5, Title: "Ran", PosterURL: "a", Description: "d"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var got Movie
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if got.ID != tt.want.ID || got.Title != tt.want.Title || got.Year != tt.want.Year {
				t.Errorf("identity fields = %+v, want %+v", got, tt.want)
			}
			if got.Description != tt.want.Description {
				t.Errorf("Description = %q, want %q", got.Description, tt.want.Description)
			}
			if got.PosterURL != tt.want.PosterURL {
				t.Errorf("PosterURL = %q, want %q", got.PosterURL, tt.want.PosterURL)
			}
			if got.TrailerURL != tt.want.TrailerURL {
				t.Errorf("TrailerURL = %q, want %q", got.TrailerURL, tt.want.TrailerURL)
			}
			if got.Rating != tt.want.Rating || got.Category != tt.want.Category || got.Runtime != tt.want.Runtime {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(got.Genres) != len(tt.want.Genres) {
				t.Errorf("Genres = %v, want %v", got.Genres, tt.want.Genres)
			}
		})
	}

	t.Run("list of movies", func(t *testing.T) {
		var movies []Movie
		if err := json.Unmarshal([]byte(`[{"id":1,"title":"A","year":"2001"},{"id":2,"title":"B","year":1999}]`), &movies); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if len(movies) != 2 || movies[0].Year != 2001 || movies[1].Year != 1999 {
			t.Errorf("unexpected movies %+v", movies)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var m Movie
		if err := json.Unmarshal([]byte(`{"id":"one"}`), &m); err == nil {
			t.Error("expected error for non-numeric id")
		}
	})
}

func TestMovieHelpers(t *testing.T) {
	bare := Movie{ID: 9, Title: "Bare"}
	if bare.PosterOrPlaceholder() != PlaceholderPoster {
		t.Errorf("expected poster placeholder, got %s", bare.PosterOrPlaceholder())
	}
	if bare.TrailerOrPlaceholder() != PlaceholderTrailer {
		t.Errorf("expected trailer placeholder, got %s", bare.TrailerOrPlaceholder())
	}
	if bare.HasGenre("Drama") {
		t.Error("movie without genres should match no genre")
	}
	if bare.YearString() != "n/a" {
		t.Errorf("YearString() = %s, want n/a", bare.YearString())
	}

	full := Movie{ID: 10, Title: "Full", Year: 2004, PosterURL: "p", TrailerURL: "t", Genres: []string{"Drama"}}
	if full.PosterOrPlaceholder() != "p" || full.TrailerOrPlaceholder() != "t" {
		t.Error("expected own poster and trailer")
	}
	if !full.HasGenre("Drama") || full.HasGenre("drama") {
		t.Error("HasGenre should be an exact match")
	}
	if full.String() != "#10 Full (2004)" {
		t.Errorf("String() = %q", full.String())
	}
}

func TestQueryState(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := NewQueryState()
		if q.Filter() != "" || q.Sort() != SortByTitle || q.Genre() != AllGenres || q.Page() != 1 {
			t.Errorf("unexpected defaults %+v", q)
		}
	})

	t.Run("changes reset page", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(q *QueryState)
		}{
			{"filter", func(q *QueryState) { q.SetFilter("alien") }},
			{"sort", func(q *QueryState) { q.SetSort(SortByYear) }},
			{"genre", func(q *QueryState) { q.SetGenre("Drama") }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				q := NewQueryState()
				q.SetPage(4)
				tt.mutate(&q)
				if q.Page() != 1 {
					t.Errorf("page = %d after %s change, want 1", q.Page(), tt.name)
				}
			})
		}
	})

	t.Run("unchanged values keep page", func(t *testing.T) {
		q := NewQueryState()
		q.SetPage(3)
		q.SetFilter("")
		q.SetSort(SortByTitle)
		q.SetGenre("")
		if q.Page() != 3 {
			t.Errorf("page = %d, want 3", q.Page())
		}
	})

	t.Run("SetPage clamps", func(t *testing.T) {
		q := NewQueryState()
		q.SetPage(-2)
		if q.Page() != 1 {
			t.Errorf("page = %d, want 1", q.Page())
		}
	})

	t.Run("ParseSortKey", func(t *testing.T) {
		if k, err := ParseSortKey("year"); err != nil || k != SortByYear {
			t.Errorf("ParseSortKey(year) = %v, %v", k, err)
		}
		if _, err := ParseSortKey("rating"); err == nil {
			t.Error("expected error for unknown sort key")
		}
		if SortByTitle.Toggle() != SortByYear || SortByYear.Toggle() != SortByTitle {
			t.Error("Toggle should alternate keys")
		}
	})
}

func TestSessionEvent(t *testing.T) {
	e := NewSessionEvent(EventLogin, "neo")
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if e.CreatedAt().IsZero() {
		t.Error("CreatedAt should be set")
	}
	if err := NewSessionEvent("teleport", "neo").Validate(); err == nil {
		t.Error("expected error for unknown kind")
	}

	if !(Identity{Role: RoleAdmin}).IsAdmin() || (Identity{Role: RoleUser}).IsAdmin() {
		t.Error("IsAdmin should reflect the admin role")
	}
}

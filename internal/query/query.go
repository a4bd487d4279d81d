// package query shapes the catalog for display: filter, sort, genre restriction and pagination.
//
// Every function returns a new slice and leaves its input untouched.
package query

import (
	"slices"
	"strings"

	"github.com/desertthunder/filmax/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the fixed number of movies per page.
const PageSize = 20

// Result is one page of pipeline output.
type Result struct {
	Movies     []models.Movie
	TotalPages int
	Total      int // size of the restricted list before pagination
}

// Pipeline runs the query steps with a fixed collation language for title ordering.
type Pipeline struct {
	lang language.Tag
}

// New creates a [Pipeline] collating titles for lang, a BCP 47 tag. Unparsable tags fall back to English.
func New(lang string) *Pipeline {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Pipeline{lang: tag}
}

// Run applies filter, sort, genre restriction and pagination for state.
func (p *Pipeline) Run(movies []models.Movie, state models.QueryState) Result {
	restricted := RestrictGenre(p.Sort(Filter(movies, state.Filter()), state.Sort()), state.Genre())
	return Result{
		Movies:     Paginate(restricted, state.Page()),
		TotalPages: TotalPages(len(restricted)),
		Total:      len(restricted),
	}
}

// Sort orders movies stably by key. Titles use locale-aware collation; missing years sort as 0.
func (p *Pipeline) Sort(movies []models.Movie, key models.SortKey) []models.Movie {
	out := slices.Clone(movies)

	switch key {
	case models.SortByYear:
		slices.SortStableFunc(out, func(a, b models.Movie) int { return a.Year - b.Year })
	default:
		// collate.Collator keeps internal buffers and is not safe for concurrent use.
		c := collate.New(p.lang)
		slices.SortStableFunc(out, func(a, b models.Movie) int { return c.CompareString(a.Title, b.Title) })
	}

	return out
}

// Filter keeps movies whose title contains text, ignoring case. Empty text keeps everything.
func Filter(movies []models.Movie, text string) []models.Movie {
	if text == "" {
		return slices.Clone(movies)
	}

	needle := strings.ToLower(text)
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

// RestrictGenre keeps movies tagged with genre. [models.AllGenres] keeps everything.
func RestrictGenre(movies []models.Movie, genre string) []models.Movie {
	if genre == models.AllGenres {
		return slices.Clone(movies)
	}

	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if m.HasGenre(genre) {
			out = append(out, m)
		}
	}
	return out
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-based page of movies. Pages outside the list are empty.
func Paginate(movies []models.Movie, page int) []models.Movie {
	if page < 1 || page > TotalPages(len(movies)) {
		return []models.Movie{}
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(movies))
	return slices.Clone(movies[start:end])
}

// GenrePage restricts the raw catalog to genre and paginates it, with no filter or sort.
//
// The genre is taken literally, so passing "All" matches only movies tagged "All".
func GenrePage(movies []models.Movie, genre string, page int) Result {
	var restricted []models.Movie
	for _, m := range movies {
		if m.HasGenre(genre) {
			restricted = append(restricted, m)
		}
	}

	return Result{
		Movies:     Paginate(restricted, page),
		TotalPages: TotalPages(len(restricted)),
		Total:      len(restricted),
	}
}

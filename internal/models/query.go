package models

import "fmt"

// AllGenres is the client-side sentinel meaning "no genre restriction". It is never sent to the server.
const AllGenres = "All"

// SortKey selects the ordering applied by the query pipeline.
type SortKey string

const (
	SortByTitle SortKey = "title"
	SortByYear  SortKey = "year"
)

// ParseSortKey validates s as a [SortKey].
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByTitle, SortByYear:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want title or year)", s)
	}
}

// Toggle returns the other sort key.
func (k SortKey) Toggle() SortKey {
	if k == SortByYear {
		return SortByTitle
	}
	return SortByYear
}

// QueryState holds the inputs of the query pipeline.
//
// Page is 1-based and returns to 1 whenever filter, sort or genre changes.
type QueryState struct {
	filter string
	sort   SortKey
	genre  string
	page   int
}

// NewQueryState returns the initial state: no filter, title order, all genres, first page.
func NewQueryState() QueryState {
	return QueryState{sort: SortByTitle, genre: AllGenres, page: 1}
}

func (q QueryState) Filter() string { return q.filter }
func (q QueryState) Sort() SortKey  { return q.sort }
func (q QueryState) Genre() string  { return q.genre }
func (q QueryState) Page() int      { return q.page }

// SetFilter changes the filter text, resetting the page when it differs.
func (q *QueryState) SetFilter(text string) {
	if text != q.filter {
		q.filter = text
		q.page = 1
	}
}

// SetSort changes the sort key, resetting the page when it differs.
func (q *QueryState) SetSort(key SortKey) {
	if key != q.sort {
		q.sort = key
		q.page = 1
	}
}

// SetGenre changes the selected genre, resetting the page when it differs. Empty means [AllGenres].
func (q *QueryState) SetGenre(genre string) {
	if genre == "" {
		genre = AllGenres
	}
	if genre != q.genre {
		q.genre = genre
		q.page = 1
	}
}

// SetPage moves to page p, clamped to at least 1. No upper bound is enforced.
func (q *QueryState) SetPage(p int) {
	q.page = max(p, 1)
}

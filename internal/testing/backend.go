package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/filmax/internal/models"
)

type fakeUser struct {
	id       int
	password string
	role     string
}

// FakeBackend is an in-process stand-in for the Filmax backend.
//
// It serves every endpoint the client consumes, keeps users, tokens and favorites in memory,
// and can be told to fail specific routes.
type FakeBackend struct {
	Server *httptest.Server

	// Before, when set, runs at the start of every request outside the backend's lock.
	Before func(r *http.Request)

	mu        sync.Mutex
	movies    []models.Movie
	genres    []string
	users     map[string]fakeUser
	tokens    map[string]string
	favorites map[string][]int
	failures  map[string]int
	hits      map[string]int
	nextUser  int
	nextToken int
}

// NewFakeBackend starts a backend serving movies and genres. It is closed when the test ends.
func NewFakeBackend(t *testing.T, movies []models.Movie, genres []string) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		movies:    movies,
		genres:    genres,
		users:     map[string]fakeUser{},
		tokens:    map[string]string{},
		favorites: map[string][]int{},
		failures:  map[string]int{},
		hits:      map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /json/movies", f.handleMovies)
	mux.HandleFunc("GET /json/genres", f.handleGenres)
	mux.HandleFunc("POST /login", f.handleLogin)
	mux.HandleFunc("POST /register", f.handleRegister)
	mux.HandleFunc("GET /me", f.authed(f.handleMe))
	mux.HandleFunc("GET /favorites", f.authed(f.handleFavorites))
	mux.HandleFunc("POST /favorites/{id}", f.authed(f.handleAddFavorite))
	mux.HandleFunc("DELETE /favorites/{id}", f.authed(f.handleRemoveFavorite))
	mux.HandleFunc("GET /admin-only", f.authed(f.handleAdmin))

	f.Server = httptest.NewServer(f.intercept(mux))
	t.Cleanup(f.Server.Close)

	return f
}

// URL is the base URL of the running backend.
func (f *FakeBackend) URL() string { return f.Server.URL }

// AddUser registers an account directly and returns its id.
func (f *FakeBackend) AddUser(username, password, role string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(username, password, role)
}

// IssueToken creates a valid bearer token for username without going through /login.
func (f *FakeBackend) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueTokenLocked(username)
}

// RevokeToken invalidates token; subsequent authed calls with it get 401.
func (f *FakeBackend) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// Fail makes "METHOD /path" respond with status until cleared with status 0.
func (f *FakeBackend) Fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, route)
		return
	}
	f.failures[route] = status
}

// Hits returns how many times "METHOD /path" was requested.
func (f *FakeBackend) Hits(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

// FavoriteIDs returns username's favorites in insertion order.
func (f *FakeBackend) FavoriteIDs(username string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.favorites[username])
}

// SetFavorites replaces username's favorites.
func (f *FakeBackend) SetFavorites(username string, ids ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[username] = slices.Clone(ids)
}

func (f *FakeBackend) addUserLocked(username, password, role string) int {
	f.nextUser++
	if role == "" {
		role = models.RoleUser
	}
	f.users[username] = fakeUser{id: f.nextUser, password: password, role: role}
	return f.nextUser
}

func (f *FakeBackend) issueTokenLocked(username string) string {
	f.nextToken++
	token := fmt.Sprintf("tok-%s-%d", username, f.nextToken)
	f.tokens[token] = username
	return token
}

func (f *FakeBackend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.Before != nil {
			f.Before(r)
		}

		route := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.hits[route]++
		status, failing := f.failures[route]
		f.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, username string)

func (f *FakeBackend) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		username, valid := f.tokens[token]
		f.mu.Unlock()

		if !ok || !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		h(w, r, username)
	}
}

func (f *FakeBackend) handleMovies(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.movies)
}

func (f *FakeBackend) handleGenres(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.genres)
}

func (f *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad form"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	username := r.PostForm.Get("username")
	user, ok := f.users[username]
	if !ok || user.password != r.PostForm.Get("password") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": f.issueTokenLocked(username),
		"token_type":   "bearer",
	})
}

func (f *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil || reg.Username == "" || reg.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid registration"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[reg.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
		return
	}

	id := f.addUserLocked(reg.Username, reg.Password, reg.Role)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "username": reg.Username})
}

func (f *FakeBackend) handleMe(w http.ResponseWriter, r *http.Request, username string) {
	f.mu.Lock()
	user := f.users[username]
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, models.Identity{ID: user.id, Username: username, Role: user.role})
}

func (f *FakeBackend) handleFavorites(w http.ResponseWriter, r *http.Request, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	films := []models.FavoriteFilm{}
	for _, id := range f.favorites[username] {
		for _, m := range f.movies {
			if m.ID == id {
				films = append(films, models.FavoriteFilm{ID: m.ID, Title: m.Title, Year: m.Year})
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, films)
}

func (f *FakeBackend) handleAddFavorite(w http.ResponseWriter, r *http.Request, username string) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !slices.Contains(f.favorites[username], id) {
		f.favorites[username] = append(f.favorites[username], id)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Added to favorites"})
}

func (f *FakeBackend) handleRemoveFavorite(w http.ResponseWriter, r *http.Request, username string) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.favorites[username] = slices.DeleteFunc(f.favorites[username], func(v int) bool { return v == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

func (f *FakeBackend) handleAdmin(w http.ResponseWriter, r *http.Request, username string) {
	f.mu.Lock()
	user := f.users[username]
	f.mu.Unlock()

	if user.role != models.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Admins only"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome, admin " + username})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

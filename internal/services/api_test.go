package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/shared"
	tu "github.com/desertthunder/filmax/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.BaseURL() != DefaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultBaseURL, srv.BaseURL())
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)

			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.Header.Get(RequestIDHeader) == "" {
					t.Error("expected request id header")
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("expected no authorization header on public request")
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || !resp.IsJSON || resp.JSONData == nil {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Successful Request With Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Custom-Header", "test-value")
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
			if resp.Headers.Get("X-Custom-Header") != "test-value" {
				t.Errorf("expected custom header 'test-value', got %s", resp.Headers.Get("X-Custom-Header"))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIService("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewAPIService(server.URL, nil).Get(ctx, "/test")
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})

	t.Run("Catalog", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(3), []string{"Comedy", "Drama"})
		srv := NewAPIService(backend.URL(), nil)

		t.Run("Movies", func(t *testing.T) {
			movies, err := srv.Movies(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(movies) != 3 || movies[0].Title != "Movie 001" {
				t.Errorf("unexpected movies %+v", movies)
			}
		})

		t.Run("Genres", func(t *testing.T) {
			genres, err := srv.Genres(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(genres) != 2 || genres[0] != "Comedy" {
				t.Errorf("unexpected genres %v", genres)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			backend.Fail("GET /json/genres", http.StatusInternalServerError)
			defer backend.Fail("GET /json/genres", 0)

			_, err := srv.Genres(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "injected failure") {
				t.Errorf("expected detail in error, got %v", err)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"a list"}`))
			}))
			defer server.Close()

			_, err := NewAPIService(server.URL, nil).Movies(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Auth", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, nil, nil)
		backend.AddUser("trinity", "follow", models.RoleAdmin)
		srv := NewAPIService(backend.URL(), nil)

		t.Run("Login Sends Form Credentials", func(t *testing.T) {
			var contentType string
			backend.Before = func(r *http.Request) {
				if r.URL.Path == "/login" {
					contentType = r.Header.Get("Content-Type")
				}
			}
			defer func() { backend.Before = nil }()

			token, err := srv.Login(context.Background(), "trinity", "follow")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token == "" {
				t.Error("expected a token")
			}
			if contentType != "application/x-www-form-urlencoded" {
				t.Errorf("expected form content type, got %s", contentType)
			}
		})

		t.Run("Login With Bad Password", func(t *testing.T) {
			_, err := srv.Login(context.Background(), "trinity", "nope")
			if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrAuthFailed wrapping ErrUnauthorized, got %v", err)
			}
		})

		t.Run("Login Without Token In Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"token_type":"bearer"}`))
			}))
			defer server.Close()

			_, err := NewAPIService(server.URL, nil).Login(context.Background(), "a", "b")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Register Defaults Role", func(t *testing.T) {
			var body models.Registration
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				json.Unmarshal(data, &body)
				w.Write([]byte(`{"id":7}`))
			}))
			defer server.Close()

			err := NewAPIService(server.URL, nil).Register(context.Background(), models.Registration{Username: "neo", Password: "x"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if body.Role != models.RoleUser {
				t.Errorf("expected role %s, got %s", models.RoleUser, body.Role)
			}
		})

		t.Run("Register Existing User", func(t *testing.T) {
			err := srv.Register(context.Background(), models.Registration{Username: "trinity", Password: "x"})
			if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "already registered") {
				t.Errorf("expected ErrAPIRequest with detail, got %v", err)
			}
		})

		t.Run("Me", func(t *testing.T) {
			token := backend.IssueToken("trinity")
			id, err := srv.Me(context.Background(), token)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if id.Username != "trinity" || !id.IsAdmin() {
				t.Errorf("unexpected identity %+v", id)
			}
		})

		t.Run("Me With Revoked Token", func(t *testing.T) {
			token := backend.IssueToken("trinity")
			backend.RevokeToken(token)

			_, err := srv.Me(context.Background(), token)
			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})

		t.Run("AdminOnly", func(t *testing.T) {
			backend.AddUser("mouse", "pw", models.RoleUser)

			resp, err := srv.AdminOnly(context.Background(), backend.IssueToken("trinity"))
			if err != nil || !strings.Contains(string(resp.Body), "trinity") {
				t.Errorf("expected admin greeting, got %v %v", resp, err)
			}

			_, err = srv.AdminOnly(context.Background(), backend.IssueToken("mouse"))
			if !errors.Is(err, shared.ErrForbidden) {
				t.Errorf("expected ErrForbidden, got %v", err)
			}
		})
	})

	t.Run("Favorites", func(t *testing.T) {
		backend := tu.NewFakeBackend(t, tu.SampleMovies(5), nil)
		backend.AddUser("neo", "pw", "")
		token := backend.IssueToken("neo")
		srv := NewAPIService(backend.URL(), nil)
		ctx := context.Background()

		if err := srv.AddFavorite(ctx, token, 2); err != nil {
			t.Fatalf("AddFavorite() error = %v", err)
		}
		if err := srv.AddFavorite(ctx, token, 4); err != nil {
			t.Fatalf("AddFavorite() error = %v", err)
		}
		if err := srv.RemoveFavorite(ctx, token, 2); err != nil {
			t.Fatalf("RemoveFavorite() error = %v", err)
		}

		films, err := srv.Favorites(ctx, token)
		if err != nil {
			t.Fatalf("Favorites() error = %v", err)
		}
		if len(films) != 1 || films[0].ID != 4 || films[0].Title != "Movie 004" {
			t.Errorf("unexpected favorites %+v", films)
		}

		t.Run("Bearer Header", func(t *testing.T) {
			var auth string
			backend.Before = func(r *http.Request) { auth = r.Header.Get("Authorization") }
			defer func() { backend.Before = nil }()

			srv.AddFavorite(ctx, token, 1)
			if auth != "Bearer "+token {
				t.Errorf("expected bearer header, got %q", auth)
			}
		})

		t.Run("Without Token", func(t *testing.T) {
			before := backend.Hits("POST /favorites/3")
			err := srv.AddFavorite(ctx, "", 3)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if backend.Hits("POST /favorites/3") != before {
				t.Error("expected no request without a token")
			}
		})

		t.Run("Missing Movie", func(t *testing.T) {
			backend.Fail("DELETE /favorites/9", http.StatusNotFound)
			err := srv.RemoveFavorite(ctx, token, 9)
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("WithRateLimit", func(t *testing.T) {
		var mu sync.Mutex
		var stamps []time.Time
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}))
		defer server.Close()

		srv := NewAPIService(server.URL, nil).WithRateLimit(20)
		for range 3 {
			if _, err := srv.Get(context.Background(), "/"); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
		}

		if elapsed := stamps[2].Sub(stamps[0]); elapsed < 80*time.Millisecond {
			t.Errorf("expected requests spaced by the limiter, got %v", elapsed)
		}

		t.Run("Canceled While Waiting", func(t *testing.T) {
			limited := NewAPIService(server.URL, nil).WithRateLimit(0.001)
			limited.Get(context.Background(), "/")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			if _, err := limited.Get(ctx, "/"); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})
}

func TestAPIResponseDetail(t *testing.T) {
	tc := []struct {
		name string
		resp APIResponse
		want string
	}{
		{"fastapi detail", APIResponse{JSONData: map[string]any{"detail": "nope"}}, "nope"},
		{"non-string detail", APIResponse{JSONData: map[string]any{"detail": []any{}}, Body: []byte(" raw ")}, "raw"},
		{"plain body", APIResponse{Body: []byte("oops\n")}, "oops"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Detail(); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}

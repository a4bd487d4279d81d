// API service for making HTTP requests to the Filmax backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "http://localhost:8000"
	RequestIDHeader = "X-Request-ID"
)

// APIService provides methods for calling the Filmax backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     log.New(io.Discard),
	}
}

// WithRateLimit caps outgoing requests at rps per second. Zero or less removes the cap.
func (a *APIService) WithRateLimit(rps float64) *APIService {
	if rps <= 0 {
		a.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return a
}

// WithLogger sets the logger used for request tracing.
func (a *APIService) WithLogger(l *log.Logger) *APIService {
	if l != nil {
		a.logger = l
	}
	return a
}

// BaseURL returns the backend root all paths are resolved against.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Detail extracts FastAPI's {"detail": "..."} message, falling back to the raw body.
func (r *APIResponse) Detail() string {
	if obj, ok := r.JSONData.(map[string]any); ok {
		if d, ok := obj["detail"].(string); ok {
			return d
		}
	}
	return strings.TrimSpace(string(r.Body))
}

// request describes one call to the backend.
type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

// Get performs an unauthenticated GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, request{method: http.MethodGet, path: path})
}

// GetAuthed performs a GET request with the bearer token attached.
func (a *APIService) GetAuthed(ctx context.Context, path, token string) (*APIResponse, error) {
	return a.do(ctx, request{method: http.MethodGet, path: path, token: token})
}

// Movies fetches the full catalog.
func (a *APIService) Movies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := a.getJSON(ctx, "/json/movies", "", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Genres fetches the server's genre labels (without the client-side "All" sentinel).
func (a *APIService) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	if err := a.getJSON(ctx, "/json/genres", "", &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Login posts form-encoded credentials and returns the access token.
func (a *APIService) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}

	resp, err := a.do(ctx, request{
		method:      http.MethodPost,
		path:        "/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("%w: invalid login response: %v", shared.ErrAPIRequest, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: login response carried no access token", shared.ErrAuthFailed)
	}

	return body.AccessToken, nil
}

// Register creates a new account. Role defaults to "user".
func (a *APIService) Register(ctx context.Context, reg models.Registration) error {
	if reg.Role == "" {
		reg.Role = models.RoleUser
	}

	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}

	resp, err := a.do(ctx, request{
		method:      http.MethodPost,
		path:        "/register",
		body:        bytes.NewReader(data),
		contentType: "application/json",
	})
	if err != nil {
		return err
	}

	return checkStatus(resp)
}

// Me returns the identity for token.
func (a *APIService) Me(ctx context.Context, token string) (*models.Identity, error) {
	var identity models.Identity
	if err := a.getJSON(ctx, "/me", token, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Favorites lists the user's favorite films.
func (a *APIService) Favorites(ctx context.Context, token string) ([]models.FavoriteFilm, error) {
	var films []models.FavoriteFilm
	if err := a.getJSON(ctx, "/favorites", token, &films); err != nil {
		return nil, err
	}
	return films, nil
}

// AddFavorite marks movieID as a favorite.
func (a *APIService) AddFavorite(ctx context.Context, token string, movieID int) error {
	return a.favorite(ctx, http.MethodPost, token, movieID)
}

// RemoveFavorite unmarks movieID.
func (a *APIService) RemoveFavorite(ctx context.Context, token string, movieID int) error {
	return a.favorite(ctx, http.MethodDelete, token, movieID)
}

// AdminOnly requests the admin-gated sample resource.
func (a *APIService) AdminOnly(ctx context.Context, token string) (*APIResponse, error) {
	resp, err := a.GetAuthed(ctx, "/admin-only", token)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *APIService) favorite(ctx context.Context, method, token string, movieID int) error {
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	resp, err := a.do(ctx, request{method: method, path: "/favorites/" + strconv.Itoa(movieID), token: token})
	if err != nil {
		return err
	}

	return checkStatus(resp)
}

func (a *APIService) getJSON(ctx context.Context, path, token string, target any) error {
	resp, err := a.do(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return fmt.Errorf("%w: invalid response from %s: %v", shared.ErrAPIRequest, path, err)
	}

	return nil
}

func (a *APIService) do(ctx context.Context, r request) (*APIResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request canceled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrServiceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, a.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	a.logger.Debug("request", "method", r.method, "path", r.path, "id", requestID, "authed", r.token != "")

	resp, err := a.client(r.token).Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("request canceled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	a.logger.Debug("response", "path", r.path, "id", requestID, "status", resp.StatusCode)

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// client returns the base client, or a copy that attaches token as a bearer credential.
func (a *APIService) client(token string) *http.Client {
	if token == "" {
		return a.httpClient
	}

	authed := *a.httpClient
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   a.httpClient.Transport,
	}
	return &authed
}

// checkStatus maps non-2xx responses onto shared sentinels.
func checkStatus(resp *APIResponse) error {
	if resp.OK() {
		return nil
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = shared.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = shared.ErrForbidden
	case http.StatusNotFound:
		sentinel = shared.ErrNotFound
	default:
		sentinel = shared.ErrAPIRequest
	}

	if detail := resp.Detail(); detail != "" {
		return fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, detail)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/catalog"
	"github.com/desertthunder/filmax/internal/favorites"
	"github.com/desertthunder/filmax/internal/query"
	"github.com/desertthunder/filmax/internal/repositories"
	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/session"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	db         *sql.DB
	events     *repositories.SessionEventRepository
	session    *session.Store
	catalog    *catalog.Cache
	favorites  *favorites.Set
	pipeline   *query.Pipeline
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	openURL    func(string) error
	prompt     Prompter
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error
	Prompt     Prompter
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a database the session token lives only as long as the process.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient).
			WithRateLimit(opts.Config.API.RequestsPerSecond).
			WithLogger(opts.Logger)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Prompt == nil {
		opts.Prompt = formPrompter{}
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    opts.OpenURL,
		prompt:     opts.Prompt,
		pipeline:   query.New(opts.Config.UI.Collation),
	}
	r.wire()
	return r
}

// wire builds the session, catalog and favorites services around the current logger.
func (r *Runner) wire() {
	var tokens session.TokenStore = &processTokens{}
	if r.db != nil {
		tokens = repositories.NewSettingsRepository(r.db)
		r.events = repositories.NewSessionEventRepository(r.db)
	}

	r.session = session.New(r.api, tokens).WithLogger(shared.WithLogger(r.logger, "component", "session"))
	if r.events != nil {
		r.session.WithRecorder(r.events)
	}
	r.catalog = catalog.New(r.api).WithLogger(shared.WithLogger(r.logger, "component", "catalog"))
	r.favorites = favorites.New(r.api, r.session).WithLogger(shared.WithLogger(r.logger, "component", "favorites"))
}

// SetLogger replaces the logger used by the runner and every service it owns.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.api.WithLogger(l)
	r.wire()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, moviesCommand, genresCommand, authCommand, favoritesCommand, adminCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// processTokens keeps the token in memory when no database is available.
type processTokens struct {
	mu    sync.Mutex
	token string
}

func (p *processTokens) LoadToken() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token, nil
}

func (p *processTokens) SaveToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	return nil
}

func (p *processTokens) ClearToken() error { return p.SaveToken("") }

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/catalog"
	"github.com/desertthunder/filmax/internal/favorites"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/query"
	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/session"
	"github.com/desertthunder/filmax/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	DetailView
	AuthView
	ProfileView
	AdminView
	ErrorView
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

func (a authMode) String() string {
	if a == modeRegister {
		return "Create account"
	}
	return "Log in"
}

// AdminAPI reaches the admin-gated resource.
type AdminAPI interface {
	AdminOnly(ctx context.Context, token string) (*services.APIResponse, error)
}

// Deps are the services the TUI drives. Session, Catalog and Favorites are required.
type Deps struct {
	Session   *session.Store
	Catalog   *catalog.Cache
	Favorites *favorites.Set
	Pipeline  *query.Pipeline
	Admin     AdminAPI
	OpenURL   func(string) error
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *log.Logger
	view   ViewState
	back   ViewState
	width  int
	height int

	query       models.QueryState
	result      query.Result
	genres      []string
	catalogList list.Model
	filterInput textinput.Model
	filtering   bool
	loading     bool
	selected    *models.Movie

	authMode   authMode
	authInputs []textinput.Model
	authFocus  int
	authErr    string
	authBusy   bool

	profileList    list.Model
	profileLoading bool

	adminMessage string
	adminErr     error
	adminLoading bool

	err    error
	status string
	tone   lipgloss.Style

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Pipeline == nil {
		deps.Pipeline = query.New("en")
	}
	if deps.OpenURL == nil {
		deps.OpenURL = shared.OpenBrowser
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "search titles"

	username := textinput.New()
	username.Prompt = "Username: "
	username.CharLimit = 64

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:         ctx,
		deps:        deps,
		logger:      logger,
		view:        CatalogView,
		query:       models.NewQueryState(),
		genres:      []string{models.AllGenres},
		catalogList: newList(),
		filterInput: filter,
		loading:     true,
		authInputs:  []textinput.Model{username, password},
		profileList: newList(),
		tone:        styles.help,
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func newList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 76, 14)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Init starts the catalog load and the session restore concurrently.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalog(), m.restoreSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.catalogList.SetSize(msg.Width-4, max(msg.Height-10, 4))
		m.profileList.SetSize(msg.Width-4, max(msg.Height-8, 4))
		m.filterInput.Width = max(msg.Width-10, 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case AuthView:
			return m.handleAuthKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		case AdminView:
			return m.handleAdminKeys(msg)
		case ErrorView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCatalogLoaded:
		m.loading = false
		if err := errOf(msg); err != nil {
			m.logger.Error("catalog load failed", "error", err)
			m.err = err
			m.view = ErrorView
			return m, nil
		}
		m.genres = m.deps.Catalog.Genres()
		m.refresh(true)

	case MsgSessionReady:
		if err := errOf(msg); err != nil {
			m.logger.Warn("session restore incomplete", "error", err)
			m.setStatus(styles.warn, "Could not load favorites: %v", err)
		}
		m.refresh(false)

	case MsgAuthFinished:
		r := msg.data.(authResult)
		m.authBusy = false
		if !r.ok {
			m.authErr = describe(r.err)
			return m, nil
		}

		if r.mode == modeRegister {
			m.authMode = modeLogin
			m.authErr = ""
			m.authInputs[1].SetValue("")
			m.setStatus(styles.ok, "Account %s created. Log in to continue.", r.username)
			return m, m.focusAuth(1)
		}

		m.closeAuth()
		m.setStatus(styles.ok, "Signed in as %s", r.username)
		return m, m.reconcileFavorites()

	case MsgFavoriteToggled, MsgFavoriteRemoved:
		r := msg.data.(favoriteResult)
		switch r.result.Status {
		case favorites.StatusOK:
			if r.result.Added {
				m.setStatus(styles.ok, "Added %s to favorites", r.title)
			} else {
				m.setStatus(styles.ok, "Removed %s from favorites", r.title)
			}
		case favorites.StatusFailed:
			m.setStatus(styles.err, "Could not update %s: %v", r.title, r.result.Err)
		case favorites.StatusSkipped:
			m.setStatus(styles.warn, "Log in to save favorites")
		}
		m.refresh(false)
		if msg.kind == MsgFavoriteRemoved {
			m.syncProfile()
		}

	case MsgFavoritesLoaded:
		m.profileLoading = false
		if err := errOf(msg); err != nil {
			m.setStatus(styles.err, "Could not load favorites: %v", err)
		}
		m.syncProfile()
		m.refresh(false)

	case MsgAdminLoaded:
		r := msg.data.(adminResult)
		m.adminLoading = false
		m.adminMessage = r.message
		m.adminErr = r.err

	case MsgTrailerOpened:
		if err := errOf(msg); err != nil {
			m.setStatus(styles.err, "Could not open trailer: %v", err)
		} else {
			m.setStatus(styles.ok, "Opened trailer in your browser")
		}
	}

	return m, nil
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch {
		case key.Matches(msg, m.keys.enter):
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		case key.Matches(msg, m.keys.back):
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.query.SetFilter("")
			m.refresh(true)
			return m, nil
		}

		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		if m.filterInput.Value() != m.query.Filter() {
			m.query.SetFilter(m.filterInput.Value())
			m.refresh(true)
		}
		return m, cmd
	}

	if m.loading {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.filter):
		m.filtering = true
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.back):
		if m.query.Filter() != "" {
			m.filterInput.SetValue("")
			m.query.SetFilter("")
			m.refresh(true)
		}
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.query.SetSort(m.query.Sort().Toggle())
		m.refresh(true)
		return m, nil
	case key.Matches(msg, m.keys.genreNext):
		m.cycleGenre(1)
		return m, nil
	case key.Matches(msg, m.keys.genrePrev):
		m.cycleGenre(-1)
		return m, nil
	case key.Matches(msg, m.keys.pageNext):
		if m.query.Page() < m.result.TotalPages {
			m.query.SetPage(m.query.Page() + 1)
			m.refresh(true)
		}
		return m, nil
	case key.Matches(msg, m.keys.pagePrev):
		if m.query.Page() > 1 {
			m.query.SetPage(m.query.Page() - 1)
			m.refresh(true)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selectedMovie(); ok {
			m.selected = &movie
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := m.selectedMovie(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.profile):
		return m, m.openProfile()
	case key.Matches(msg, m.keys.login):
		return m, m.openAuth(modeLogin)
	case key.Matches(msg, m.keys.logout):
		m.logout()
		return m, nil
	case key.Matches(msg, m.keys.admin):
		return m, m.openAdmin()
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.catalogList, cmd = m.catalogList.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = CatalogView
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite(*m.selected)
	case key.Matches(msg, m.keys.trailer):
		return m, m.openTrailer(*m.selected)
	case key.Matches(msg, m.keys.login):
		return m, m.openAuth(modeLogin)
	}
	return m, nil
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.authBusy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.closeAuth()
		return m, nil
	case key.Matches(msg, m.keys.switchTab):
		if m.authMode == modeLogin {
			m.authMode = modeRegister
		} else {
			m.authMode = modeLogin
		}
		m.authErr = ""
		return m, nil
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		return m, m.focusAuth(1 - m.authFocus)
	case key.Matches(msg, m.keys.enter):
		if m.authFocus == 0 {
			return m, m.focusAuth(1)
		}
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.profileList.SelectedItem().(favoriteItem); ok && !m.profileLoading {
			return m, m.removeFavorite(item.film)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.profileList.SelectedItem().(favoriteItem); ok {
			if movie, err := m.deps.Catalog.Find(item.film.ID); err == nil {
				m.selected = &movie
				m.view = DetailView
			} else {
				m.setStatus(styles.warn, "%s is not in the catalog", item.film.Title)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.logout):
		m.logout()
		return m, nil
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.profileList, cmd = m.profileList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleAdminKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
	}
	return m, nil
}

// refresh reruns the query pipeline and rebuilds the catalog list.
func (m *Model) refresh(resetCursor bool) {
	m.result = m.deps.Pipeline.Run(m.deps.Catalog.Movies(), m.query)

	items := make([]list.Item, len(m.result.Movies))
	for i, movie := range m.result.Movies {
		items[i] = movieItem{movie: movie, favorite: m.deps.Favorites.Contains(movie.ID)}
	}
	m.catalogList.SetItems(items)
	if resetCursor {
		m.catalogList.ResetSelected()
	}
}

func (m *Model) syncProfile() {
	films := m.deps.Favorites.Films()
	items := make([]list.Item, len(films))
	for i, f := range films {
		items[i] = favoriteItem{film: f}
	}
	m.profileList.SetItems(items)
}

func (m *Model) cycleGenre(delta int) {
	n := len(m.genres)
	idx := 0
	for i, g := range m.genres {
		if g == m.query.Genre() {
			idx = i
			break
		}
	}
	m.query.SetGenre(m.genres[((idx+delta)%n+n)%n])
	m.refresh(true)
}

func (m *Model) selectedMovie() (models.Movie, bool) {
	item, ok := m.catalogList.SelectedItem().(movieItem)
	if !ok {
		return models.Movie{}, false
	}
	return item.movie, true
}

func (m *Model) setStatus(tone lipgloss.Style, format string, args ...any) {
	m.tone = tone
	m.status = fmt.Sprintf(format, args...)
}

func (m *Model) openAuth(mode authMode) tea.Cmd {
	if m.view != AuthView {
		m.back = m.view
	}
	m.view = AuthView
	m.authMode = mode
	m.authErr = ""
	return m.focusAuth(0)
}

func (m *Model) closeAuth() {
	m.view = m.back
	if m.view == AuthView || (m.view == DetailView && m.selected == nil) {
		m.view = CatalogView
	}
	m.authInputs[1].SetValue("")
	for i := range m.authInputs {
		m.authInputs[i].Blur()
	}
}

func (m *Model) focusAuth(i int) tea.Cmd {
	m.authFocus = i
	m.authInputs[1-i].Blur()
	return m.authInputs[i].Focus()
}

func (m *Model) logout() {
	m.deps.Session.Logout()
	m.deps.Favorites.Clear()
	m.syncProfile()
	m.refresh(false)
	if m.view == ProfileView || m.view == AdminView {
		m.view = CatalogView
	}
	m.setStatus(styles.ok, "Signed out")
}

func (m *Model) openProfile() tea.Cmd {
	if !m.deps.Session.Authenticated() {
		m.setStatus(styles.warn, "Log in to view your profile")
		return m.openAuth(modeLogin)
	}

	m.view = ProfileView
	m.profileLoading = true
	return m.reconcileFavorites()
}

func (m *Model) openAdmin() tea.Cmd {
	if m.deps.Session.Token() == "" {
		m.setStatus(styles.warn, "Log in to reach the admin panel")
		return m.openAuth(modeLogin)
	}
	if m.deps.Admin == nil {
		m.setStatus(styles.warn, "Admin panel unavailable")
		return nil
	}

	m.view = AdminView
	m.adminLoading = true
	m.adminMessage = ""
	m.adminErr = nil
	return m.loadAdmin()
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg(m.deps.Catalog.Load(m.ctx))
	}
}

func (m *Model) restoreSession() tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Session.Init(m.ctx); err != nil {
			return sessionReadyMsg(err)
		}
		return sessionReadyMsg(m.deps.Favorites.Reconcile(m.ctx))
	}
}

func (m *Model) reconcileFavorites() tea.Cmd {
	return func() tea.Msg {
		return favoritesLoadedMsg(m.deps.Favorites.Reconcile(m.ctx))
	}
}

func (m *Model) submitAuth() tea.Cmd {
	username := strings.TrimSpace(m.authInputs[0].Value())
	password := m.authInputs[1].Value()
	if username == "" || password == "" {
		m.authErr = "Username and password are required"
		return nil
	}

	m.authBusy = true
	m.authErr = ""
	mode := m.authMode

	return func() tea.Msg {
		var ok bool
		if mode == modeRegister {
			ok = m.deps.Session.Register(m.ctx, username, password, "")
		} else {
			ok = m.deps.Session.Login(m.ctx, username, password)
		}
		return authFinishedMsg(authResult{mode: mode, ok: ok, username: username, err: m.deps.Session.LastError()})
	}
}

func (m *Model) toggleFavorite(movie models.Movie) tea.Cmd {
	return func() tea.Msg {
		res := m.deps.Favorites.Toggle(m.ctx, movie.ID)
		m.logger.Debug("favorite toggled", "movie", movie.ID, "status", res.Status, "added", res.Added)
		return favoriteToggledMsg(favoriteResult{movieID: movie.ID, title: movie.Title, result: res})
	}
}

func (m *Model) removeFavorite(film models.FavoriteFilm) tea.Cmd {
	return func() tea.Msg {
		res := m.deps.Favorites.Remove(m.ctx, film.ID)
		return favoriteRemovedMsg(favoriteResult{movieID: film.ID, title: film.Title, result: res})
	}
}

func (m *Model) loadAdmin() tea.Cmd {
	token := m.deps.Session.Token()
	return func() tea.Msg {
		resp, err := m.deps.Admin.AdminOnly(m.ctx, token)
		if err != nil {
			return adminLoadedMsg(adminResult{err: err})
		}
		return adminLoadedMsg(adminResult{message: adminMessage(resp)})
	}
}

func (m *Model) openTrailer(movie models.Movie) tea.Cmd {
	target := shared.WatchURL(movie.TrailerOrPlaceholder())
	return func() tea.Msg {
		return trailerOpenedMsg(m.deps.OpenURL(target))
	}
}

func adminMessage(resp *services.APIResponse) string {
	if obj, ok := resp.JSONData.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			return msg
		}
	}
	return strings.TrimSpace(string(resp.Body))
}

// describe turns a session failure into a form message.
func describe(err error) string {
	switch {
	case err == nil:
		return "Request failed"
	case errors.Is(err, shared.ErrUnauthorized):
		return "Incorrect username or password"
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "Server unreachable, try again later"
	default:
		return err.Error()
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.view == ErrorView {
		return styles.err.Render(fmt.Sprintf("Could not load the catalog: %v\n\nPress q to quit", m.err))
	}
	if m.loading {
		return fmt.Sprintf("%s\n\n%s Loading catalog...", m.renderHeader(), m.spinner.View())
	}

	var body string
	switch m.view {
	case CatalogView:
		body = m.renderCatalog()
	case DetailView:
		body = m.renderDetail()
	case AuthView:
		body = m.renderAuth()
	case ProfileView:
		body = m.renderProfile()
	case AdminView:
		body = m.renderAdmin()
	}

	return fmt.Sprintf("%s\n\n%s\n%s", m.renderHeader(), body, m.renderStatus())
}

func (m *Model) renderHeader() string {
	banner := styles.banner.Render("FILMAX")

	var who string
	switch id := m.deps.Session.Identity(); {
	case m.deps.Session.Loading():
		who = m.spinner.View() + " checking session"
	case id != nil:
		who = styles.ok.Render("● ") + id.Username
		if id.IsAdmin() {
			who += styles.warn.Render(" (admin)")
		}
	default:
		who = styles.help.Render("anonymous")
	}

	return banner + "  " + who
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return m.tone.Render(m.status)
}

func (m *Model) renderCatalog() string {
	var filter string
	if m.filtering {
		filter = m.filterInput.View()
	} else if m.query.Filter() != "" {
		filter = styles.label.Render("Filter: ") + m.query.Filter()
	}

	summary := fmt.Sprintf("Sort: %s • Genre: %s • Page %d/%d • %d movies",
		m.query.Sort(), m.query.Genre(), m.query.Page(), max(m.result.TotalPages, 1), m.result.Total)

	var listView string
	if m.result.Total == 0 {
		listView = styles.help.Render("No movies match.")
	} else {
		listView = m.catalogList.View()
	}

	helpKeys := []key.Binding{
		m.keys.enter, m.keys.filter, m.keys.sort, m.keys.genreNext, m.keys.pagePrev, m.keys.pageNext,
		m.keys.favorite, m.keys.profile, m.loginOrLogout(), m.keys.admin, m.keys.quit,
	}

	parts := []string{summary}
	if filter != "" {
		parts = append(parts, filter)
	}
	parts = append(parts, "", listView, m.help.ShortHelpView(helpKeys))
	return strings.Join(parts, "\n")
}

func (m *Model) renderDetail() string {
	movie := m.selected

	var b strings.Builder
	title := movie.Title
	if m.deps.Favorites.Contains(movie.ID) {
		title = "★ " + title
	}
	b.WriteString(styles.title.Render(fmt.Sprintf("%s (%s)", title, movie.YearString())))
	b.WriteString("\n")

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", styles.label.Render(label+":"), value)
		}
	}
	field("Director", movie.Director)
	if movie.Rating > 0 {
		field("Rating", fmt.Sprintf("%.1f/10", movie.Rating))
	}
	field("Runtime", movie.Runtime)
	field("Genres", strings.Join(movie.Genres, ", "))
	field("Category", movie.Category)
	field("Cast", movie.Actors)
	field("Poster", movie.PosterOrPlaceholder())
	field("Trailer", shared.WatchURL(movie.TrailerOrPlaceholder()))

	if movie.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(m.width-8, 40)).Render(movie.Description))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.trailer, m.keys.back, m.keys.quit}
	return styles.panel.Render(strings.TrimRight(b.String(), "\n")) + "\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderAuth() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(m.authMode.String()))
	b.WriteString("\n")
	for _, in := range m.authInputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.authBusy {
		fmt.Fprintf(&b, "\n%s working...\n", m.spinner.View())
	} else if m.authErr != "" {
		fmt.Fprintf(&b, "\n%s\n", styles.err.Render(m.authErr))
	}

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	helpKeys := []key.Binding{submit, m.keys.switchTab, m.keys.back}
	return styles.panel.Render(strings.TrimRight(b.String(), "\n")) + "\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderProfile() string {
	title := "Favorites"
	if id := m.deps.Session.Identity(); id != nil {
		title = fmt.Sprintf("Favorites of %s", id.Username)
	}

	var body string
	switch {
	case m.profileLoading:
		body = m.spinner.View() + " Loading favorites..."
	case len(m.profileList.Items()) == 0:
		body = styles.help.Render("No favorites yet. Press f on a movie to add one.")
	default:
		body = m.profileList.View()
	}

	open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	helpKeys := []key.Binding{open, m.keys.remove, m.keys.back, m.keys.logout, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(title), body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAdmin() string {
	var body string
	switch {
	case m.adminLoading:
		body = m.spinner.View() + " Contacting admin endpoint..."
	case errors.Is(m.adminErr, shared.ErrForbidden):
		body = styles.err.Render("Admins only. Your account lacks the admin role.")
	case m.adminErr != nil:
		body = styles.err.Render(fmt.Sprintf("Admin request failed: %v", m.adminErr))
	default:
		body = styles.ok.Render(m.adminMessage)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("Admin panel"), body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) loginOrLogout() key.Binding {
	if m.deps.Session.Token() != "" {
		return m.keys.logout
	}
	return m.keys.login
}

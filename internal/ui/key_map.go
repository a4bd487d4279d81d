package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	filter    key.Binding
	sort      key.Binding
	genreNext key.Binding
	genrePrev key.Binding
	pageNext  key.Binding
	pagePrev  key.Binding
	favorite  key.Binding
	trailer   key.Binding
	profile   key.Binding
	login     key.Binding
	logout    key.Binding
	admin     key.Binding
	remove    key.Binding
	switchTab key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		genreNext: key.NewBinding(key.WithKeys("g"), key.WithHelp("g/G", "genre")),
		genrePrev: key.NewBinding(key.WithKeys("G")),
		pageNext:  key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next page")),
		pagePrev:  key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "prev page")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		trailer:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "trailer")),
		profile:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		login:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		admin:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "admin")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		switchTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "login/register")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.filter, k.sort, k.genreNext, k.pagePrev, k.pageNext},
		{k.favorite, k.trailer, k.profile, k.remove},
		{k.login, k.logout, k.admin, k.quit},
	}
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/filmax/internal/favorites"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogLoaded MsgKind = iota
	MsgSessionReady
	MsgAuthFinished
	MsgFavoriteToggled
	MsgFavoritesLoaded
	MsgFavoriteRemoved
	MsgAdminLoaded
	MsgTrailerOpened
)

type authResult struct {
	mode     authMode
	ok       bool
	username string
	err      error
}

type favoriteResult struct {
	movieID int
	title   string
	result  favorites.Result
}

type adminResult struct {
	message string
	err     error
}

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(err error) Msg {
	return Msg{kind: MsgCatalogLoaded, data: err}
}

// sessionReadyMsg is the constructor for [MsgSessionReady]
func sessionReadyMsg(err error) Msg {
	return Msg{kind: MsgSessionReady, data: err}
}

// authFinishedMsg is the constructor for [MsgAuthFinished]
func authFinishedMsg(r authResult) Msg {
	return Msg{kind: MsgAuthFinished, data: r}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(r favoriteResult) Msg {
	return Msg{kind: MsgFavoriteToggled, data: r}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: err}
}

// favoriteRemovedMsg is the constructor for [MsgFavoriteRemoved]
func favoriteRemovedMsg(r favoriteResult) Msg {
	return Msg{kind: MsgFavoriteRemoved, data: r}
}

// adminLoadedMsg is the constructor for [MsgAdminLoaded]
func adminLoadedMsg(r adminResult) Msg {
	return Msg{kind: MsgAdminLoaded, data: r}
}

// trailerOpenedMsg is the constructor for [MsgTrailerOpened]
func trailerOpenedMsg(err error) Msg {
	return Msg{kind: MsgTrailerOpened, data: err}
}

// errOf extracts the error payload of messages that carry only an error.
func errOf(m Msg) error {
	err, _ := m.data.(error)
	return err
}

// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is the client's view layer:
//  1. [CatalogView] : Paged movie list with filter, sort, genre and page controls
//  2. [DetailView] : One movie's details, favorite toggle and trailer link
//  3. [AuthView] : Login and registration form
//  4. [ProfileView] : The signed-in user's favorites, reconciled with the backend on open
//  5. [AdminView] : Result of the admin-gated resource
//  6. [ErrorView] : Catalog failure, replacing the whole interface
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every backend call runs inside a [tea.Cmd]; the session and favorites it touches are safe for concurrent use.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

package models

import "fmt"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated user as reported by the backend's /me endpoint.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func (i Identity) String() string {
	return fmt.Sprintf("%s (#%d, %s)", i.Username, i.ID, i.Role)
}

// Registration is the JSON body sent to /register.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// FavoriteFilm is the condensed movie returned by the /favorites endpoint.
type FavoriteFilm struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

package remote

import (
	"context"
	"net/http"
	"net/url"
)

// NewUser is the payload of CreateUser.
type NewUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// AllUsers lists every account (arbitre only).
func (c *Client) AllUsers(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "users.list", method: http.MethodGet, path: "/auth/admin/users"})
}

// CreateUser creates an account (arbitre only).
func (c *Client) CreateUser(ctx context.Context, u NewUser) (*Envelope, error) {
	return c.do(ctx, call{name: "users.create", method: http.MethodPost, path: "/auth/admin/users", body: u})
}

// DeleteUser removes an account (arbitre only).
func (c *Client) DeleteUser(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "users.delete", method: http.MethodDelete, path: "/auth/admin/users/" + url.PathEscape(id)})
}

// ResetAllData wipes every tasting, session and user on the backend
// (arbitre only).
func (c *Client) ResetAllData(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "admin.reset_all_data", method: http.MethodDelete, path: "/auth/admin/reset-all-data"})
}

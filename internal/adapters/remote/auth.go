package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/tasting/pkg/logger"
)

type loginData struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login authenticates and stores the issued token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	env, err := c.do(ctx, call{
		name:   "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	var data loginData
	if err := env.Decode(&data); err != nil {
		return nil, err
	}
	if !env.Success || data.Token == "" {
		return nil, ErrNotLoggedIn
	}
	if err := c.saveCredentials(ctx, data.Token, data.User); err != nil {
		return nil, err
	}
	return data.User, nil
}

// Profile fetches the profile of the authenticated user.
func (c *Client) Profile(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "auth.profile", method: http.MethodGet, path: "/auth/profile"})
}

// RequestPasswordReset asks the backend to mail a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "auth.forgot_password",
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email},
	})
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "auth.reset_password",
		method: http.MethodPost,
		path:   "/auth/reset-password",
		body:   map[string]string{"token": token, "newPassword": newPassword},
	})
}

// TestConnection probes the health endpoint next to the API base. Any
// failure reports false.
func (c *Client) TestConnection(ctx context.Context) bool {
	target := strings.Replace(c.baseURL, "/api", "", 1) + "/api/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "backend unreachable", logger.String("url", target), logger.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false
	}
	return env.Success
}

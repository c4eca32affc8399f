package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/pkg/logger"
)

// RoleArbitre is the role allowed to use the administration endpoints.
const RoleArbitre = "arbitre"

// User is the account returned by login and profile calls.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Token returns the stored bearer token, or "" when logged out.
func (c *Client) Token(ctx context.Context) (string, error) {
	data, err := c.store.Get(ctx, TokenKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("remote: read token: %w", err)
	}
	return string(data), nil
}

func (c *Client) saveCredentials(ctx context.Context, token string, user *User) error {
	if err := c.store.Put(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("remote: save token: %w", err)
	}
	if user == nil {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("remote: encode user: %w", err)
	}
	if err := c.store.Put(ctx, UserKey, data); err != nil {
		return fmt.Errorf("remote: save user: %w", err)
	}
	return nil
}

// Logout forgets the token and the current user. No request is sent.
func (c *Client) Logout(ctx context.Context) error {
	return errors.Join(c.store.Delete(ctx, TokenKey), c.store.Delete(ctx, UserKey))
}

// CurrentUser returns the stored user. A missing or unreadable record
// yields nil.
func (c *Client) CurrentUser(ctx context.Context) *User {
	data, err := c.store.Get(ctx, UserKey)
	if err != nil {
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		c.logger.Warn(ctx, "stored user is unreadable", logger.Error(err))
		return nil
	}
	return &u
}

// IsAuthenticated reports whether a token is stored and, when it carries an
// exp claim, not yet expired. The signature is not checked.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	token, err := c.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	exp, ok := c.TokenExpiry(token)
	return !ok || c.now().Before(exp)
}

// IsArbitre reports whether the current user holds the arbitre role. The
// stored user wins; the token's role claim is used when no user is stored.
func (c *Client) IsArbitre(ctx context.Context) bool {
	if u := c.CurrentUser(ctx); u != nil {
		return u.Role == RoleArbitre
	}
	token, err := c.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	claims, ok := parseClaims(token)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == RoleArbitre
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
func (c *Client) TokenExpiry(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

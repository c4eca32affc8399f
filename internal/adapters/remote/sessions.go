package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/tasting/internal/domain/model"
)

func sessionPath(id string, parts ...string) string {
	p := "/sessions/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// AvailableSessions lists the sessions a taster may join.
func (c *Client) AvailableSessions(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.available", method: http.MethodGet, path: "/sessions/available"})
}

// JoinSession adds the authenticated user to a session.
func (c *Client) JoinSession(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.join", method: http.MethodPost, path: sessionPath(id, "join")})
}

// SessionForTaster returns a session as seen by a taster.
func (c *Client) SessionForTaster(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.taster", method: http.MethodGet, path: sessionPath(id, "taster")})
}

// CreateSession creates a session from any JSON-encodable description
// (arbitre only).
func (c *Client) CreateSession(ctx context.Context, session any) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.create", method: http.MethodPost, path: "/sessions", body: session})
}

// AllSessions lists every session (arbitre only).
func (c *Client) AllSessions(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.admin_all", method: http.MethodGet, path: "/sessions/admin/all"})
}

// Session fetches one session (arbitre only). A timestamp parameter keeps
// intermediaries from serving a cached copy.
func (c *Client) Session(ctx context.Context, id string) (*Envelope, error) {
	q := url.Values{}
	q.Set("t", fmt.Sprint(c.now().UnixMilli()))
	return c.do(ctx, call{name: "sessions.get", method: http.MethodGet, path: sessionPath(id), query: q})
}

// AddBottleToSession adds a bottle to a session (arbitre only).
func (c *Client) AddBottleToSession(ctx context.Context, id string, bottle model.Wine) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.add_bottle", method: http.MethodPost, path: sessionPath(id, "bottles"), body: bottle})
}

// RemoveBottleFromSession deletes a bottle (arbitre only).
func (c *Client) RemoveBottleFromSession(ctx context.Context, bottleID string) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "sessions.remove_bottle",
		method: http.MethodDelete,
		path:   "/sessions/bottles/" + url.PathEscape(bottleID),
	})
}

// UpdateSessionStatus changes the status of a session (arbitre only).
func (c *Client) UpdateSessionStatus(ctx context.Context, id, status string) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "sessions.update_status",
		method: http.MethodPatch,
		path:   sessionPath(id, "status"),
		body:   map[string]string{"status": status},
	})
}

// DeleteSession removes a session (arbitre only).
func (c *Client) DeleteSession(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "sessions.delete", method: http.MethodDelete, path: sessionPath(id)})
}

// AddParticipantToSession adds a user to a session (arbitre only).
func (c *Client) AddParticipantToSession(ctx context.Context, id, userID string) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "sessions.add_participant",
		method: http.MethodPost,
		path:   sessionPath(id, "participants"),
		body:   map[string]string{"userId": userID},
	})
}

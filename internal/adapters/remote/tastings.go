package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/okian/tasting/internal/domain/model"
)

// Default page sizes of the listing endpoints.
const (
	defaultTastingsLimit    = 20
	defaultAllTastingsLimit = 50
	defaultRankingsLimit    = 20
)

// CreateTasting uploads one completed tasting.
func (c *Client) CreateTasting(ctx context.Context, rec model.TastingRecord) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.create", method: http.MethodPost, path: "/tastings", body: rec})
}

// Tastings lists the tastings of the authenticated user.
func (c *Client) Tastings(ctx context.Context, p Page) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.list", method: http.MethodGet, path: "/tastings", query: p.query(defaultTastingsLimit)})
}

// Tasting fetches one tasting.
func (c *Client) Tasting(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.get", method: http.MethodGet, path: "/tastings/" + url.PathEscape(id)})
}

// DeleteTasting removes one tasting.
func (c *Client) DeleteTasting(ctx context.Context, id string) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.delete", method: http.MethodDelete, path: "/tastings/" + url.PathEscape(id)})
}

// Statistics returns the statistics of the authenticated user.
func (c *Client) Statistics(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.statistics", method: http.MethodGet, path: "/tastings/statistics"})
}

// GlobalStatistics returns statistics over every user.
func (c *Client) GlobalStatistics(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{name: "tastings.global_statistics", method: http.MethodGet, path: "/tastings/global-statistics"})
}

// AllTastings lists the tastings of every user (arbitre only).
func (c *Client) AllTastings(ctx context.Context, p Page) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "tastings.admin_all",
		method: http.MethodGet,
		path:   "/tastings/admin/all",
		query:  p.query(defaultAllTastingsLimit),
	})
}

// DetailedGlobalStatistics returns per-user statistics (arbitre only).
func (c *Client) DetailedGlobalStatistics(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "tastings.admin_detailed_statistics",
		method: http.MethodGet,
		path:   "/tastings/admin/detailed-statistics",
	})
}

// BottleRankings ranks the bottles tasted by the authenticated user.
func (c *Client) BottleRankings(ctx context.Context, p Page) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "tastings.rankings",
		method: http.MethodGet,
		path:   "/tastings/rankings",
		query:  p.query(defaultRankingsLimit),
	})
}

// GlobalBottleRankings ranks bottles across every user (arbitre only).
func (c *Client) GlobalBottleRankings(ctx context.Context, p Page) (*Envelope, error) {
	return c.do(ctx, call{
		name:   "tastings.admin_rankings",
		method: http.MethodGet,
		path:   "/tastings/admin/rankings",
		query:  p.query(defaultRankingsLimit),
	})
}

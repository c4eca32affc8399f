package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type seenRequest struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	RequestID string
	Body      map[string]any
}

// backend is a scripted tasting backend that records what it receives.
type backend struct {
	mu     sync.Mutex
	seen   []seenRequest
	status int
	reply  string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	b.mu.Lock()
	b.seen = append(b.seen, seenRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Auth:      r.Header.Get("Authorization"),
		RequestID: r.Header.Get(headerRequestID),
		Body:      body,
	})
	status, reply := b.status, b.reply
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if reply == "" {
		reply = `{"success":true,"data":{}}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(reply))
}

func (b *backend) respond(status int, reply string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status, b.reply = status, reply
}

func (b *backend) last() seenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seen[len(b.seen)-1]
}

func signedToken(claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

func newTestClient(srv *httptest.Server, store kv.Store, now time.Time) *Client {
	return New(store,
		WithBaseURL(srv.URL+"/api"),
		WithTimeout(time.Second),
		WithClock(func() time.Time { return now }))
}

func TestLogin(t *testing.T) {
	Convey("Given a backend that issues tokens", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		token := signedToken(jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "role": "taster"})
		be := &backend{reply: `{"success":true,"data":{"token":"` + token + `","user":{"id":"u1","email":"a@b.fr","role":"arbitre"}}}`}
		srv := httptest.NewServer(be)
		defer srv.Close()
		store := kv.NewMemoryStore()
		c := newTestClient(srv, store, now)

		Convey("When logging in", func() {
			user, err := c.Login(ctx, "a@b.fr", "secret")

			Convey("Then credentials are sent and stored", func() {
				So(err, ShouldBeNil)
				So(user.ID, ShouldEqual, "u1")
				req := be.last()
				So(req.Method, ShouldEqual, http.MethodPost)
				So(req.Path, ShouldEqual, "/api/auth/login")
				So(req.Body["email"], ShouldEqual, "a@b.fr")
				So(req.Body["password"], ShouldEqual, "secret")
				So(req.Auth, ShouldBeEmpty)
				So(req.RequestID, ShouldNotBeEmpty)

				stored, err := c.Token(ctx)
				So(err, ShouldBeNil)
				So(stored, ShouldEqual, token)
				So(c.IsAuthenticated(ctx), ShouldBeTrue)
				So(c.IsArbitre(ctx), ShouldBeTrue)
				So(c.CurrentUser(ctx).Email, ShouldEqual, "a@b.fr")
			})

			Convey("And the next call carries the bearer token", func() {
				_, err := c.Profile(ctx)
				So(err, ShouldBeNil)
				So(be.last().Auth, ShouldEqual, "Bearer "+token)
				So(be.last().Path, ShouldEqual, "/api/auth/profile")
			})

			Convey("And logging out forgets everything", func() {
				So(c.Logout(ctx), ShouldBeNil)
				So(c.IsAuthenticated(ctx), ShouldBeFalse)
				So(c.CurrentUser(ctx), ShouldBeNil)
				So(c.IsArbitre(ctx), ShouldBeFalse)
			})
		})

		Convey("When the backend answers without a token", func() {
			be.respond(http.StatusOK, `{"success":false,"message":"compte inactif"}`)
			_, err := c.Login(ctx, "a@b.fr", "secret")

			Convey("Then nothing is stored", func() {
				So(errors.Is(err, ErrNotLoggedIn), ShouldBeTrue)
				So(c.IsAuthenticated(ctx), ShouldBeFalse)
			})
		})
	})
}

func TestErrorHandling(t *testing.T) {
	Convey("Given a logged in client", t, func() {
		ctx := context.Background()
		be := &backend{}
		srv := httptest.NewServer(be)
		defer srv.Close()
		store := kv.NewMemoryStore()
		So(store.Put(ctx, TokenKey, []byte("opaque-token")), ShouldBeNil)
		So(store.Put(ctx, UserKey, []byte(`{"id":"u1","email":"a@b.fr","role":"taster"}`)), ShouldBeNil)
		c := newTestClient(srv, store, time.Now())

		Convey("When the backend answers 401", func() {
			be.respond(http.StatusUnauthorized, `{"success":false,"message":"jwt expired"}`)
			_, err := c.Tastings(ctx, Page{})

			Convey("Then the session is cleared and the error says so", func() {
				So(errors.Is(err, ErrAuthExpired), ShouldBeTrue)
				var rerr *Error
				So(errors.As(err, &rerr), ShouldBeTrue)
				So(rerr.Message, ShouldEqual, "Session expirée, veuillez vous reconnecter")
				So(c.IsAuthenticated(ctx), ShouldBeFalse)
				So(c.CurrentUser(ctx), ShouldBeNil)
			})
		})

		Convey("When the backend answers 403 with a message", func() {
			be.respond(http.StatusForbidden, `{"success":false,"message":"Accès réservé aux arbitres"}`)
			_, err := c.AllUsers(ctx)

			Convey("Then the message is surfaced and the session kept", func() {
				var rerr *Error
				So(errors.As(err, &rerr), ShouldBeTrue)
				So(rerr.Status, ShouldEqual, http.StatusForbidden)
				So(rerr.Message, ShouldEqual, "Accès réservé aux arbitres")
				So(errors.Is(err, ErrAuthExpired), ShouldBeFalse)
				So(c.IsAuthenticated(ctx), ShouldBeTrue)
			})
		})

		Convey("When the backend answers 500 without a body", func() {
			be.respond(http.StatusInternalServerError, `oops`)
			_, err := c.Statistics(ctx)

			Convey("Then a generic server error is reported", func() {
				var rerr *Error
				So(errors.As(err, &rerr), ShouldBeTrue)
				So(rerr.Message, ShouldEqual, "Erreur serveur")
			})
		})

		Convey("When a successful answer is not JSON", func() {
			be.respond(http.StatusOK, `<html>`)
			_, err := c.GlobalStatistics(ctx)

			Convey("Then the response is rejected", func() {
				So(errors.Is(err, ErrInvalidResponse), ShouldBeTrue)
			})
		})
	})
}

func TestTokenClaims(t *testing.T) {
	Convey("Given tokens with claims", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		store := kv.NewMemoryStore()
		c := New(store, WithClock(func() time.Time { return now }))

		Convey("When the token has expired", func() {
			So(store.Put(ctx, TokenKey, []byte(signedToken(jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}))), ShouldBeNil)

			Convey("Then the client is not authenticated", func() {
				So(c.IsAuthenticated(ctx), ShouldBeFalse)
				exp, ok := c.TokenExpiry(signedToken(jwt.MapClaims{"exp": now.Unix()}))
				So(ok, ShouldBeTrue)
				So(exp.Unix(), ShouldEqual, now.Unix())
			})
		})

		Convey("When only the token names the role", func() {
			So(store.Put(ctx, TokenKey, []byte(signedToken(jwt.MapClaims{"role": "arbitre"}))), ShouldBeNil)

			Convey("Then the claim decides", func() {
				So(c.IsAuthenticated(ctx), ShouldBeTrue)
				So(c.IsArbitre(ctx), ShouldBeTrue)
			})
		})

		Convey("When the token is not a JWT", func() {
			So(store.Put(ctx, TokenKey, []byte("opaque")), ShouldBeNil)

			Convey("Then presence is enough", func() {
				So(c.IsAuthenticated(ctx), ShouldBeTrue)
				So(c.IsArbitre(ctx), ShouldBeFalse)
				_, ok := c.TokenExpiry("opaque")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestEndpoints(t *testing.T) {
	Convey("Given a client against a recording backend", t, func() {
		ctx := context.Background()
		now := time.UnixMilli(1_700_000_000_123)
		be := &backend{}
		srv := httptest.NewServer(be)
		defer srv.Close()
		c := newTestClient(srv, kv.NewMemoryStore(), now)

		type expect struct {
			method string
			path   string
			query  string
		}
		cases := []struct {
			name string
			call func() (*Envelope, error)
			want expect
		}{
			{"create tasting", func() (*Envelope, error) {
				return c.CreateTasting(ctx, model.TastingRecord{ID: 1, Score: 13.6, Date: now})
			}, expect{http.MethodPost, "/api/tastings", ""}},
			{"tastings", func() (*Envelope, error) { return c.Tastings(ctx, Page{}) }, expect{http.MethodGet, "/api/tastings", "limit=20&page=1"}},
			{"tasting", func() (*Envelope, error) { return c.Tasting(ctx, "t 1") }, expect{http.MethodGet, "/api/tastings/t 1", ""}},
			{"delete tasting", func() (*Envelope, error) { return c.DeleteTasting(ctx, "7") }, expect{http.MethodDelete, "/api/tastings/7", ""}},
			{"statistics", func() (*Envelope, error) { return c.Statistics(ctx) }, expect{http.MethodGet, "/api/tastings/statistics", ""}},
			{"global statistics", func() (*Envelope, error) { return c.GlobalStatistics(ctx) }, expect{http.MethodGet, "/api/tastings/global-statistics", ""}},
			{"all tastings", func() (*Envelope, error) { return c.AllTastings(ctx, Page{Page: 2}) }, expect{http.MethodGet, "/api/tastings/admin/all", "limit=50&page=2"}},
			{"detailed statistics", func() (*Envelope, error) { return c.DetailedGlobalStatistics(ctx) }, expect{http.MethodGet, "/api/tastings/admin/detailed-statistics", ""}},
			{"rankings", func() (*Envelope, error) { return c.BottleRankings(ctx, Page{Limit: 5}) }, expect{http.MethodGet, "/api/tastings/rankings", "limit=5&page=1"}},
			{"global rankings", func() (*Envelope, error) { return c.GlobalBottleRankings(ctx, Page{}) }, expect{http.MethodGet, "/api/tastings/admin/rankings", "limit=20&page=1"}},
			{"available sessions", func() (*Envelope, error) { return c.AvailableSessions(ctx) }, expect{http.MethodGet, "/api/sessions/available", ""}},
			{"join session", func() (*Envelope, error) { return c.JoinSession(ctx, "s1") }, expect{http.MethodPost, "/api/sessions/s1/join", ""}},
			{"taster session", func() (*Envelope, error) { return c.SessionForTaster(ctx, "s1") }, expect{http.MethodGet, "/api/sessions/s1/taster", ""}},
			{"create session", func() (*Envelope, error) {
				return c.CreateSession(ctx, map[string]string{"name": "Bordeaux"})
			}, expect{http.MethodPost, "/api/sessions", ""}},
			{"all sessions", func() (*Envelope, error) { return c.AllSessions(ctx) }, expect{http.MethodGet, "/api/sessions/admin/all", ""}},
			{"session", func() (*Envelope, error) { return c.Session(ctx, "s1") }, expect{http.MethodGet, "/api/sessions/s1", "t=1700000000123"}},
			{"add bottle", func() (*Envelope, error) {
				return c.AddBottleToSession(ctx, "s1", model.Wine{Name: "Margaux"})
			}, expect{http.MethodPost, "/api/sessions/s1/bottles", ""}},
			{"remove bottle", func() (*Envelope, error) { return c.RemoveBottleFromSession(ctx, "b1") }, expect{http.MethodDelete, "/api/sessions/bottles/b1", ""}},
			{"session status", func() (*Envelope, error) { return c.UpdateSessionStatus(ctx, "s1", "closed") }, expect{http.MethodPatch, "/api/sessions/s1/status", ""}},
			{"delete session", func() (*Envelope, error) { return c.DeleteSession(ctx, "s1") }, expect{http.MethodDelete, "/api/sessions/s1", ""}},
			{"add participant", func() (*Envelope, error) { return c.AddParticipantToSession(ctx, "s1", "u2") }, expect{http.MethodPost, "/api/sessions/s1/participants", ""}},
			{"all users", func() (*Envelope, error) { return c.AllUsers(ctx) }, expect{http.MethodGet, "/api/auth/admin/users", ""}},
			{"create user", func() (*Envelope, error) {
				return c.CreateUser(ctx, NewUser{Email: "x@y.fr", Password: "pw"})
			}, expect{http.MethodPost, "/api/auth/admin/users", ""}},
			{"delete user", func() (*Envelope, error) { return c.DeleteUser(ctx, "u2") }, expect{http.MethodDelete, "/api/auth/admin/users/u2", ""}},
			{"reset all data", func() (*Envelope, error) { return c.ResetAllData(ctx) }, expect{http.MethodDelete, "/api/auth/admin/reset-all-data", ""}},
			{"forgot password", func() (*Envelope, error) { return c.RequestPasswordReset(ctx, "a@b.fr") }, expect{http.MethodPost, "/api/auth/forgot-password", ""}},
			{"reset password", func() (*Envelope, error) { return c.ResetPassword(ctx, "tok", "new") }, expect{http.MethodPost, "/api/auth/reset-password", ""}},
		}

		for _, tc := range cases {
			Convey("When calling "+tc.name, func() {
				env, err := tc.call()

				Convey("Then the right route is hit", func() {
					So(err, ShouldBeNil)
					So(env.Success, ShouldBeTrue)
					req := be.last()
					So(req.Method, ShouldEqual, tc.want.method)
					So(req.Path, ShouldEqual, tc.want.path)
					So(req.Query, ShouldEqual, tc.want.query)
				})
			})
		}

		Convey("When sending bodies", func() {
			_, err := c.UpdateSessionStatus(ctx, "s1", "closed")
			So(err, ShouldBeNil)
			So(be.last().Body["status"], ShouldEqual, "closed")

			_, err = c.AddParticipantToSession(ctx, "s1", "u2")
			So(err, ShouldBeNil)
			So(be.last().Body["userId"], ShouldEqual, "u2")

			_, err = c.ResetPassword(ctx, "tok", "new")
			So(err, ShouldBeNil)
			So(be.last().Body["newPassword"], ShouldEqual, "new")

			_, err = c.CreateTasting(ctx, model.TastingRecord{ID: 1, Score: 13.6, Date: now, BottleCount: 1})
			So(err, ShouldBeNil)
			So(be.last().Body["score"], ShouldEqual, 13.6)
		})
	})
}

func TestConnectionProbe(t *testing.T) {
	Convey("Given a health endpoint", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":true}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then a reachable backend reports true", func() {
			c := New(kv.NewMemoryStore(), WithBaseURL(srv.URL+"/api/"))
			So(strings.HasSuffix(c.BaseURL(), "/api"), ShouldBeTrue)
			So(c.TestConnection(ctx), ShouldBeTrue)
		})

		Convey("Then an unreachable backend reports false", func() {
			c := New(kv.NewMemoryStore(), WithBaseURL("http://127.0.0.1:1/api"), WithTimeout(200*time.Millisecond))
			So(c.TestConnection(ctx), ShouldBeFalse)
		})
	})
}

func TestEnvelopeDecode(t *testing.T) {
	Convey("Given envelopes", t, func() {
		var out struct {
			Total int `json:"total"`
		}

		Convey("Then data is decoded", func() {
			env := &Envelope{Data: json.RawMessage(`{"total":3}`)}
			So(env.Decode(&out), ShouldBeNil)
			So(out.Total, ShouldEqual, 3)
		})

		Convey("Then a null payload is ignored", func() {
			env := &Envelope{Data: json.RawMessage(`null`)}
			So(env.Decode(&out), ShouldBeNil)
		})

		Convey("Then a mismatched payload is rejected", func() {
			env := &Envelope{Data: json.RawMessage(`[1,2]`)}
			So(errors.Is(env.Decode(&out), ErrInvalidResponse), ShouldBeTrue)
		})
	})
}

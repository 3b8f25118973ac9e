package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"goop-cafe-go/internal/session"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// TokenHeader carries the opaque session token.
const TokenHeader = "X-Auth-Token"

type ctxKey string

const ctxKeySession ctxKey = "session"

// RequestToken returns the trimmed session token of r, if any.
func RequestToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

func (a *App) middlewareLoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := RequestToken(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, err := a.Authenticate(r.Context(), tok)
		switch {
		case err == nil:
			r = r.WithContext(context.WithValue(r.Context(), ctxKeySession, s))
		case KindOf(err) != KindAuth:
			a.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) middlewareRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.Info("request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency", time.Since(start),
		)
	})
}

// CurrentSession returns the session attached by the load-session
// middleware, or nil for anonymous requests.
func (a *App) CurrentSession(r *http.Request) *session.Session {
	s, _ := r.Context().Value(ctxKeySession).(*session.Session)
	return s
}

// Exported wrappers so router wiring can live outside the app package (no handlers import cycle).
func (a *App) MiddlewareLoadSession(next http.Handler) http.Handler {
	return a.middlewareLoadSession(next)
}

func (a *App) MiddlewareRequestLog(next http.Handler) http.Handler {
	return a.middlewareRequestLog(next)
}

// Package identity provides anonymous per-device visitor identity.
package identity

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	VisitorCookieName     = "cd_visitor_id"
	SessionHeaderName     = "X-CD-Session-ID"
	DefaultSessionIDValue = "default"
	visitorCookieMaxAge   = 365 * 24 * time.Hour
)

type contextKey int

const (
	visitorIDKey contextKey = iota
	sessionIDKey
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// VisitorIDFromContext extracts the visitor ID from the request context.
func VisitorIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(visitorIDKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the tab session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

// WithVisitor returns a context carrying the given ids. Handlers outside
// the middleware and tests use it.
func WithVisitor(ctx context.Context, visitorID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, visitorIDKey, visitorID)
	return context.WithValue(ctx, sessionIDKey, sanitizeSessionID(sessionID))
}

func isValidVisitorID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

func setVisitorCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(visitorCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func getOrCreateVisitorID(w http.ResponseWriter, r *http.Request, secure bool) string {
	if c, err := r.Cookie(VisitorCookieName); err == nil && isValidVisitorID(c.Value) {
		setVisitorCookie(w, c.Value, secure)
		return c.Value
	}
	id := uuid.NewString()
	setVisitorCookie(w, id, secure)
	return id
}

func sessionIDFromRequest(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	return sanitizeSessionID(sid)
}

// Middleware injects the visitor ID cookie and per-request session ID.
// secure marks the cookie Secure and is turned off for plain-HTTP development.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := getOrCreateVisitorID(w, r, secure)
			ctx := WithVisitor(r.Context(), visitorID, sessionIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

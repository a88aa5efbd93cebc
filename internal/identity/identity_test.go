package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestMiddlewareIssuesVisitorCookie(t *testing.T) {
	var gotVisitor, gotSession string
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVisitor = VisitorIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(gotVisitor); err != nil {
		t.Fatalf("visitor id %q is not a uuid", gotVisitor)
	}
	if gotSession != DefaultSessionIDValue {
		t.Fatalf("session = %q", gotSession)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != VisitorCookieName || cookies[0].Value != gotVisitor {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].Secure {
		t.Fatalf("cookie flags = %+v", cookies[0])
	}
}

func TestMiddlewareKeepsValidCookie(t *testing.T) {
	existing := uuid.NewString()
	var got string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = VisitorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: existing})
	req.Header.Set(SessionHeaderName, "tab-2")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got != existing {
		t.Fatalf("visitor = %q, want %q", got, existing)
	}
	if c := rr.Result().Cookies(); len(c) != 1 || !c[0].Secure {
		t.Fatalf("refreshed cookie = %+v", c)
	}
}

func TestMiddlewareReplacesInvalidCookie(t *testing.T) {
	var got string
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = VisitorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "not-a-uuid"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == "not-a-uuid" || got == "" {
		t.Fatalf("invalid cookie was kept: %q", got)
	}
}

func TestSanitizeSessionID(t *testing.T) {
	tests := map[string]string{
		"":          DefaultSessionIDValue,
		"  tab-1  ": "tab-1",
		"bad id!":   DefaultSessionIDValue,
		"a.b:c_d-1": "a.b:c_d-1",
	}
	for in, want := range tests {
		if got := sanitizeSessionID(in); got != want {
			t.Fatalf("sanitizeSessionID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := IPFromRequest(req); got != "10.0.0.1" {
		t.Fatalf("IPFromRequest = %q", got)
	}
}

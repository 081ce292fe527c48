package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"blog-platform/internal/identity"
)

type upstream struct {
	server *httptest.Server
	hits   int64
}

func newUpstream() *upstream {
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&u.hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}))
	return u
}

func (u *upstream) Hits() int64 {
	return atomic.LoadInt64(&u.hits)
}

// newAuthStub serves the role introspection endpoint: a fixed set of tokens
// map to identities, anything else is rejected.
func newAuthStub(t *testing.T, delay time.Duration) *upstream {
	t.Helper()

	identities := map[string]map[string]string{
		"user-token":  {"userId": "user-1", "userRole": "user"},
		"admin-token": {"userId": "admin-1", "userRole": "admin"},
	}

	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&u.hits, 1)
		if delay > 0 {
			time.Sleep(delay)
		}

		token := r.Header.Get("Authorization")
		info, ok := identities[trimBearer(token)]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	}))
	return u
}

func trimBearer(header string) string {
	return identity.ExtractBearerToken(header)
}

func newTestGateway(t *testing.T, authURL string, content *upstream, resolveTimeout time.Duration) *Server {
	t.Helper()

	resolver := identity.NewRoleResolver(authURL, resolveTimeout)
	gw, err := New("0", nil, resolver, Targets{
		Auth:     authURL,
		Articles: content.server.URL,
		Posts:    content.server.URL,
		Comments: content.server.URL,
	})
	if err != nil {
		t.Fatalf("failed to build gateway: %v", err)
	}
	return gw
}

func send(gw *Server, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	gw.Echo.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestAnonymousArticleDeleteDenied(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	rec := send(gw, http.MethodDelete, "/api/articles/550e8400-e29b-41d4-a716-446655440000", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Only admins can create or delete articles." {
		t.Errorf("unexpected message %q", got)
	}
	if content.Hits() != 0 {
		t.Error("denied request must not reach the upstream")
	}
	// No credential presented, so the role check needs no auth round-trip.
	if auth.Hits() != 0 {
		t.Error("anonymous request should not contact the auth service")
	}
}

func TestConnectedUserCommentUpdateProxied(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	rec := send(gw, http.MethodPut, "/api/comments/550e8400-e29b-41d4-a716-446655440000", "user-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if content.Hits() != 1 {
		t.Fatalf("expected exactly one upstream hit, got %d", content.Hits())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["method"] != http.MethodPut || body["path"] != "/api/comments/550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("request not forwarded verbatim: %+v", body)
	}
}

func TestAdminSubtreeReadRequiresAdmin(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	rec := send(gw, http.MethodGet, "/api/posts/admin/all", "user-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Only admins can read everything about posts." {
		t.Errorf("unexpected message %q", got)
	}

	rec = send(gw, http.MethodGet, "/api/posts/admin/all", "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRoleCheckTimeoutFailsClosed(t *testing.T) {
	auth := newAuthStub(t, 300*time.Millisecond)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, 50*time.Millisecond)

	rec := send(gw, http.MethodPut, "/api/comments/550e8400-e29b-41d4-a716-446655440000", "user-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != msgRoleCheckFailed {
		t.Errorf("unexpected message %q", got)
	}
	if content.Hits() != 0 {
		t.Error("request must not be proxied when the role check fails")
	}
}

func TestInvalidCredentialDeniedNotDemoted(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	// A forged token on a public read: a guest could GET freely, but a
	// presented credential that fails verification is rejected, never
	// treated as a guest. The check only fires on gated routes.
	rec := send(gw, http.MethodDelete, "/api/posts/550e8400-e29b-41d4-a716-446655440000", "forged-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != msgRoleCheckFailed {
		t.Errorf("unexpected message %q", got)
	}
	if content.Hits() != 0 {
		t.Error("request must not be proxied with an invalid credential")
	}
}

func TestPublicReadSkipsRoleCheck(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	rec := send(gw, http.MethodGet, "/api/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.Hits() != 0 {
		t.Error("public read should not contact the auth service")
	}
	if content.Hits() != 1 {
		t.Errorf("expected one upstream hit, got %d", content.Hits())
	}
}

func TestAuthRoutesBypassBouncer(t *testing.T) {
	auth := newAuthStub(t, 0)
	defer auth.server.Close()
	content := newUpstream()
	defer content.server.Close()

	gw := newTestGateway(t, auth.server.URL, content, time.Second)

	rec := send(gw, http.MethodPost, "/api/auth/login", "")
	// The stub rejects the missing token, but the request reached it: the
	// gateway itself imposed nothing.
	if auth.Hits() != 1 {
		t.Fatalf("expected the auth upstream to be hit, got %d", auth.Hits())
	}
	if rec.Code == http.StatusForbidden {
		t.Error("auth routes must not be bounced")
	}
}

package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-platform/internal/policy"
	apperrors "blog-platform/pkg/errors"
)

func TestResolveMissingCredentialIsGuest(t *testing.T) {
	resolver := NewRoleResolver("http://auth.invalid", time.Second)

	caller, err := resolver.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if caller.Role != policy.RoleGuest || caller.Authenticated {
		t.Errorf("missing credential should resolve to guest, got %+v", caller)
	}
}

func TestResolveAdoptsVerifiedRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok123" {
			t.Errorf("bearer header not forwarded, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":"u42","userRole":"admin"}`))
	}))
	defer srv.Close()

	resolver := NewRoleResolver(srv.URL, time.Second)
	caller, err := resolver.Resolve(context.Background(), "Bearer tok123")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if caller.ID != "u42" || caller.Role != policy.RoleAdmin || !caller.Authenticated {
		t.Errorf("unexpected caller %+v", caller)
	}
}

func TestResolveFailsClosedOnRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	resolver := NewRoleResolver(srv.URL, time.Second)
	_, err := resolver.Resolve(context.Background(), "Bearer expired")
	if err == nil {
		t.Fatal("rejected credential must not resolve")
	}
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

// A verifier that cannot be reached blocks the request instead of silently
// treating the caller as guest.
func TestResolveFailsClosedOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	resolver := NewRoleResolver(srv.URL, 20*time.Millisecond)
	_, err := resolver.Resolve(context.Background(), "Bearer tok")
	if err == nil {
		t.Fatal("verifier timeout must not resolve to guest")
	}
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestResolveRejectsMalformedHeader(t *testing.T) {
	resolver := NewRoleResolver("http://auth.invalid", time.Second)

	for _, header := range []string{"Basic abc", "Bearer", "Bearer a b"} {
		if _, err := resolver.Resolve(context.Background(), header); err == nil {
			t.Errorf("header %q should fail closed", header)
		}
	}
}

func TestResolveRejectsUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userId":"u1","userRole":"superuser"}`))
	}))
	defer srv.Close()

	resolver := NewRoleResolver(srv.URL, time.Second)
	if _, err := resolver.Resolve(context.Background(), "Bearer tok"); err == nil {
		t.Error("unknown role from verifier must fail closed")
	}
}

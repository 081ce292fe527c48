package policy

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	apperrors "blog-platform/pkg/errors"
)

type fakeOwners struct {
	owners map[string]string
	err    error
	calls  int
}

func (f *fakeOwners) Owner(_ context.Context, ref ResourceRef) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	owner, ok := f.owners[ref.ID]
	if !ok {
		return "", apperrors.NotFound("resource not found")
	}
	return owner, nil
}

func TestEvaluateRoleMinimum(t *testing.T) {
	engine := NewEngine(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		rule    Rule
		caller  Caller
		allowed bool
		reason  Reason
		status  int
	}{
		{
			"Guest allowed on public read",
			Rule{Family: FamilyArticles, Method: http.MethodGet, MinRole: RoleGuest},
			Guest(),
			true, ReasonNone, http.StatusOK,
		},
		{
			"Guest denied on user minimum",
			Rule{Family: FamilyPosts, Method: http.MethodPost, MinRole: RoleUser},
			Guest(),
			false, ReasonInsufficientRole, http.StatusForbidden,
		},
		{
			"User denied on admin minimum",
			Rule{Family: FamilyArticles, Method: http.MethodPost, MinRole: RoleAdmin},
			Caller{ID: "u1", Role: RoleUser, Authenticated: true},
			false, ReasonInsufficientRole, http.StatusForbidden,
		},
		{
			"Admin allowed on admin minimum",
			Rule{Family: FamilyArticles, Method: http.MethodPost, MinRole: RoleAdmin},
			Caller{ID: "a1", Role: RoleAdmin, Authenticated: true},
			true, ReasonNone, http.StatusOK,
		},
		{
			"AdminOnly flag elevates a user-minimum rule",
			Rule{Family: FamilyPosts, Method: http.MethodGet, MinRole: RoleGuest, AdminOnly: true},
			Caller{ID: "u1", Role: RoleUser, Authenticated: true},
			false, ReasonInsufficientRole, http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := engine.Evaluate(ctx, tt.rule, tt.caller, nil)
			if v.Allowed != tt.allowed {
				t.Fatalf("Evaluate allowed = %v, expected %v (verdict %+v)", v.Allowed, tt.allowed, v)
			}
			if v.Reason != tt.reason {
				t.Errorf("Evaluate reason = %s, expected %s", v.Reason, tt.reason)
			}
			if v.Status != tt.status {
				t.Errorf("Evaluate status = %d, expected %d", v.Status, tt.status)
			}
		})
	}
}

func TestEvaluateOwnership(t *testing.T) {
	owners := &fakeOwners{owners: map[string]string{"c1": "u1"}}
	engine := NewEngine(owners)
	ctx := context.Background()

	rule := Rule{Family: FamilyComments, Method: http.MethodPut, MinRole: RoleUser, OwnershipScoped: true}
	ref := &ResourceRef{Type: "comment", ID: "c1"}

	t.Run("Owner allowed", func(t *testing.T) {
		v := engine.Evaluate(ctx, rule, Caller{ID: "u1", Role: RoleUser, Authenticated: true}, ref)
		if !v.Allowed {
			t.Fatalf("owner should be allowed, got %+v", v)
		}
	})

	t.Run("Other user denied", func(t *testing.T) {
		v := engine.Evaluate(ctx, rule, Caller{ID: "u2", Role: RoleUser, Authenticated: true}, ref)
		if v.Allowed {
			t.Fatal("non-owner should be denied")
		}
		if v.Reason != ReasonNotOwner || v.Status != http.StatusForbidden {
			t.Errorf("expected not_owner/403, got %s/%d", v.Reason, v.Status)
		}
	})

	t.Run("Admin overrides ownership", func(t *testing.T) {
		v := engine.Evaluate(ctx, rule, Caller{ID: "a9", Role: RoleAdmin, Authenticated: true}, ref)
		if !v.Allowed {
			t.Fatalf("admin should be allowed, got %+v", v)
		}
	})
}

func TestEvaluateMissingResource(t *testing.T) {
	engine := NewEngine(&fakeOwners{owners: map[string]string{}})
	ctx := context.Background()

	rule := Rule{Family: FamilyPosts, Method: http.MethodDelete, MinRole: RoleUser, OwnershipScoped: true}
	v := engine.Evaluate(ctx, rule, Caller{ID: "u1", Role: RoleUser, Authenticated: true}, &ResourceRef{Type: "post", ID: "nope"})

	if v.Allowed {
		t.Fatal("missing resource must deny")
	}
	if v.Reason != ReasonResourceNotFound || v.Status != http.StatusNotFound {
		t.Errorf("expected resource_not_found/404, got %s/%d", v.Reason, v.Status)
	}
}

// A resource without an owner concept (legacy card variants) is gated by
// role minimum alone.
func TestEvaluateOwnerlessResource(t *testing.T) {
	engine := NewEngine(&fakeOwners{owners: map[string]string{"card1": ""}})
	ctx := context.Background()

	rule := Rule{Family: FamilyPosts, Method: http.MethodPut, MinRole: RoleUser, OwnershipScoped: true}
	v := engine.Evaluate(ctx, rule, Caller{ID: "u2", Role: RoleUser, Authenticated: true}, &ResourceRef{Type: "post", ID: "card1"})

	if !v.Allowed {
		t.Fatalf("ownerless resource should rely on role minimum only, got %+v", v)
	}
}

func TestEvaluateOwnerLookupFailure(t *testing.T) {
	engine := NewEngine(&fakeOwners{err: fmt.Errorf("connection refused")})
	ctx := context.Background()

	rule := Rule{Family: FamilyArticles, Method: http.MethodPut, MinRole: RoleUser, OwnershipScoped: true}
	v := engine.Evaluate(ctx, rule, Caller{ID: "u1", Role: RoleUser, Authenticated: true}, &ResourceRef{Type: "article", ID: "a1"})

	if v.Allowed {
		t.Fatal("storage failure must never downgrade to allow")
	}
	if v.Reason != ReasonUpstreamUnavailable || v.Status != http.StatusInternalServerError {
		t.Errorf("expected upstream_unavailable/500, got %s/%d", v.Reason, v.Status)
	}
}

// Evaluating the same (rule, caller, owner) tuple repeatedly always yields
// the same verdict; the engine holds no hidden state.
func TestEvaluateIdempotent(t *testing.T) {
	owners := &fakeOwners{owners: map[string]string{"p1": "u1"}}
	engine := NewEngine(owners)
	ctx := context.Background()

	rule := Rule{Family: FamilyPosts, Method: http.MethodPut, MinRole: RoleUser, OwnershipScoped: true}
	caller := Caller{ID: "u2", Role: RoleUser, Authenticated: true}
	ref := &ResourceRef{Type: "post", ID: "p1"}

	first := engine.Evaluate(ctx, rule, caller, ref)
	for i := 0; i < 5; i++ {
		if v := engine.Evaluate(ctx, rule, caller, ref); v != first {
			t.Fatalf("verdict changed between evaluations: %+v vs %+v", first, v)
		}
	}
}

// The role minimum is checked before any ownership lookup, so callers below
// the minimum never trigger a storage read.
func TestEvaluateRoleCheckedBeforeOwnership(t *testing.T) {
	owners := &fakeOwners{owners: map[string]string{"p1": "u1"}}
	engine := NewEngine(owners)

	rule := Rule{Family: FamilyPosts, Method: http.MethodDelete, MinRole: RoleUser, OwnershipScoped: true}
	v := engine.Evaluate(context.Background(), rule, Guest(), &ResourceRef{Type: "post", ID: "p1"})

	if v.Allowed {
		t.Fatal("guest should be denied")
	}
	if owners.calls != 0 {
		t.Errorf("ownership lookup ran %d times for a role denial, expected 0", owners.calls)
	}
}

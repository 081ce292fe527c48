package policy

import (
	"context"
	"errors"

	apperrors "blog-platform/pkg/errors"
)

const (
	msgUnauthenticated  = "Invalid or expired credentials."
	msgNotOwner         = "You are not authorized to modify this resource."
	msgResourceNotFound = "Didn't find the resource you were looking for."
	msgOwnerLookupFail  = "Something went wrong while checking resource ownership."
)

// ResourceRef identifies the resource a request targets, for ownership
// checks. The owner is read on demand immediately before the gated mutation
// and never cached across requests.
type ResourceRef struct {
	Type string
	ID   string
}

// OwnerLookup is the storage collaborator port. Owner returns the identity
// that created the resource, an empty string when the resource type carries
// no ownership concept, or an error wrapping apperrors.ErrNotFound when the
// resource does not exist.
type OwnerLookup interface {
	Owner(ctx context.Context, ref ResourceRef) (string, error)
}

// Engine composes role and ownership checks into an allow/deny verdict.
// It is a pure per-request function: no state is kept between evaluations
// and no side effects are performed before the verdict is returned.
type Engine struct {
	owners OwnerLookup
}

func NewEngine(owners OwnerLookup) *Engine {
	return &Engine{owners: owners}
}

// Evaluate challenges a caller against a rule, and against resource
// ownership when the rule is ownership-scoped and a resource is targeted.
//
// A request is allowed only if the caller role meets the rule's minimum
// under guest < user < admin, AND, for ownership-scoped rules, the caller
// is the resource owner or an admin. A missing resource yields 404 before
// any ownership comparison so that a non-existent resource never leaks an
// authorization decision.
func (e *Engine) Evaluate(ctx context.Context, rule Rule, caller Caller, ref *ResourceRef) Verdict {
	minRole := rule.MinRole
	if rule.AdminOnly && !minRole.AtLeast(RoleAdmin) {
		minRole = RoleAdmin
	}

	if !caller.Role.AtLeast(minRole) {
		msg := rule.DenyMessage
		if msg == "" {
			msg = msgNotOwner
		}
		return Deny(ReasonInsufficientRole, msg)
	}

	if rule.OwnershipScoped && ref != nil {
		if e.owners == nil {
			return Deny(ReasonUpstreamUnavailable, msgOwnerLookupFail)
		}

		owner, err := e.owners.Owner(ctx, *ref)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return Deny(ReasonResourceNotFound, msgResourceNotFound)
			}
			return Deny(ReasonUpstreamUnavailable, msgOwnerLookupFail)
		}

		// Some legacy resource variants carry no owner at all; for those the
		// role minimum is the whole policy.
		if owner != "" && owner != caller.ID && !caller.IsAdmin() {
			return Deny(ReasonNotOwner, msgNotOwner)
		}
	}

	return Allow()
}

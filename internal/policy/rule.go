package policy

import (
	"net/http"
	"strings"
)

// Resource families guarded by the gateway.
const (
	FamilyArticles = "articles"
	FamilyPosts    = "posts"
	FamilyComments = "comments"
	FamilyUsers    = "users"
)

// adminSegment is the legacy path convention: any path containing this
// literal segment is elevated to admin-only. Substring containment is
// deliberately preserved for wire compatibility with existing clients, even
// though it also elevates unrelated paths that happen to contain the segment.
// Service-side routes use the explicit AdminOnly rule attribute instead.
const adminSegment = "/admin/"

// Rule is a single static policy entry. Rules are built at startup and
// immutable afterwards.
type Rule struct {
	Family          string
	Method          string
	MinRole         Role
	AdminOnly       bool
	OwnershipScoped bool
	DenyMessage     string
}

// FamilyPolicy configures the per-family parts of the gateway table: the
// minimum role for create/delete and the denial wording. Article, post and
// comment policies are structurally identical.
type FamilyPolicy struct {
	Family           string
	CreateDeleteRole Role

	createDeleteMsg string
	adminUpdateMsg  string
	userUpdateMsg   string
	adminReadMsg    string
}

// Table maps (family, method, path shape) to a required minimum role.
type Table struct {
	families map[string]FamilyPolicy
}

// GatewayTable returns the policy table enforced by the gateway, matching
// the historical middleware: article create/delete is admin-only, post and
// comment create/delete require a connected user, updates require a user
// (admin under /admin/), reads are public outside /admin/.
func GatewayTable() *Table {
	return NewTable(
		FamilyPolicy{Family: FamilyArticles, CreateDeleteRole: RoleAdmin},
		FamilyPolicy{Family: FamilyPosts, CreateDeleteRole: RoleUser},
		FamilyPolicy{Family: FamilyComments, CreateDeleteRole: RoleUser},
	)
}

// NewTable builds an immutable policy table from per-family policies.
func NewTable(policies ...FamilyPolicy) *Table {
	t := &Table{families: make(map[string]FamilyPolicy, len(policies))}
	for _, p := range policies {
		p.createDeleteMsg = "Only admins can create or delete " + p.Family + "."
		p.adminUpdateMsg = "Only admins can update everything about " + p.Family + "."
		p.userUpdateMsg = "Only connected users can interact with " + p.Family + "."
		p.adminReadMsg = "Only admins can read everything about " + p.Family + "."
		t.families[p.Family] = p
	}
	return t
}

// AdminScoped reports whether the path falls under the legacy admin subtree
// convention.
func AdminScoped(path string) bool {
	return strings.Contains(path, adminSegment)
}

// Match resolves the rule for an inbound (family, method, path) triple.
// Returns false when the family is not guarded by this table.
func (t *Table) Match(family, method, path string) (Rule, bool) {
	p, ok := t.families[family]
	if !ok {
		return Rule{}, false
	}

	admin := AdminScoped(path)
	rule := Rule{Family: family, Method: method, AdminOnly: admin}

	switch method {
	case http.MethodPost, http.MethodDelete:
		rule.MinRole = p.CreateDeleteRole
		rule.DenyMessage = p.createDeleteMsg
	case http.MethodPut:
		if admin {
			rule.MinRole = RoleAdmin
			rule.DenyMessage = p.adminUpdateMsg
		} else {
			rule.MinRole = RoleUser
			rule.DenyMessage = p.userUpdateMsg
		}
	case http.MethodGet:
		if admin {
			rule.MinRole = RoleAdmin
			rule.DenyMessage = p.adminReadMsg
		} else {
			rule.MinRole = RoleGuest
		}
	default:
		// Unknown methods fall back to the create/delete minimum rather
		// than passing unchecked.
		rule.MinRole = p.CreateDeleteRole
		rule.DenyMessage = p.createDeleteMsg
	}

	if admin && !rule.MinRole.AtLeast(RoleAdmin) {
		rule.MinRole = RoleAdmin
		rule.DenyMessage = p.adminReadMsg
	}

	return rule, true
}

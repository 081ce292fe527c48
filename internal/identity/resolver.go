package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blog-platform/internal/policy"
	apperrors "blog-platform/pkg/errors"
)

const (
	defaultResolveTimeout = 3 * time.Second

	// The auth service mounts its routes under the full public prefix, so
	// introspection hits the same path a client would.
	infoPath = "/api/auth/info"
)

// RoleResolver determines the caller's role for the gateway by introspecting
// the bearer credential against the auth service.
//
// A missing credential resolves to guest. A credential that is present but
// malformed, rejected, or unverifiable (including network errors and
// timeouts) is an authentication failure: the resolver fails closed and the
// request must be denied, never demoted to guest.
type RoleResolver struct {
	client  *http.Client
	baseURL string
}

type infoResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"userRole"`
}

func NewRoleResolver(authBaseURL string, timeout time.Duration) *RoleResolver {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &RoleResolver{
		client:  &http.Client{Timeout: timeout},
		baseURL: authBaseURL,
	}
}

// Resolve turns the raw Authorization header into a Caller.
func (r *RoleResolver) Resolve(ctx context.Context, authHeader string) (policy.Caller, error) {
	if authHeader == "" {
		return policy.Guest(), nil
	}

	token := ExtractBearerToken(authHeader)
	if token == "" {
		return policy.Caller{}, apperrors.Unauthorized("malformed authorization header")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+infoPath, nil)
	if err != nil {
		return policy.Caller{}, apperrors.Upstream("failed to build role lookup request", err)
	}
	req.Header.Set(headerAuthorization, "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		return policy.Caller{}, apperrors.Upstream("role lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return policy.Caller{}, apperrors.Unauthorized(fmt.Sprintf("role lookup rejected with status %d", resp.StatusCode))
	}

	var info infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return policy.Caller{}, apperrors.Upstream("failed to decode role lookup response", err)
	}

	role, err := policy.ParseRole(info.Role)
	if err != nil {
		return policy.Caller{}, apperrors.Unauthorized("role lookup returned an unknown role")
	}

	return policy.Caller{ID: info.UserID, Role: role, Authenticated: true}, nil
}

package policy

import "net/http"

// Reason is the stable taxonomy of denial reasons.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonUnauthenticated     Reason = "unauthenticated"
	ReasonInsufficientRole    Reason = "insufficient_role"
	ReasonNotOwner            Reason = "not_owner"
	ReasonResourceNotFound    Reason = "resource_not_found"
	ReasonUpstreamUnavailable Reason = "upstream_unavailable"
)

// Verdict is the outcome of a single authorization evaluation. It is produced
// once per request and never persisted.
type Verdict struct {
	Allowed bool
	Reason  Reason
	Status  int
	Message string
}

// Allow returns the proceed verdict.
func Allow() Verdict {
	return Verdict{Allowed: true, Status: http.StatusOK}
}

// Deny returns a denial verdict with the status derived from the reason.
func Deny(reason Reason, message string) Verdict {
	return Verdict{
		Allowed: false,
		Reason:  reason,
		Status:  statusForReason(reason),
		Message: message,
	}
}

func statusForReason(reason Reason) int {
	switch reason {
	case ReasonUnauthenticated:
		return http.StatusUnauthorized
	case ReasonInsufficientRole, ReasonNotOwner:
		return http.StatusForbidden
	case ReasonResourceNotFound:
		return http.StatusNotFound
	case ReasonUpstreamUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}

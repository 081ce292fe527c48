package mailer

import (
	"fmt"
	"strings"
)

// Strategy decides how a message is distributed over the provider list.
type Strategy interface {
	Send(data *EmailData, providers []Provider) (*EmailResult, error)
}

// SingleProviderStrategy sends through the first provider only.
type SingleProviderStrategy struct{}

func (s *SingleProviderStrategy) Send(data *EmailData, providers []Provider) (*EmailResult, error) {
	if len(providers) == 0 {
		return &EmailResult{Success: false, Error: ErrNoProviders.Error(), Provider: "none"}, ErrNoProviders
	}
	return providers[0].Send(data)
}

// FailoverStrategy walks the provider list in order and stops at the first
// success.
type FailoverStrategy struct{}

func (s *FailoverStrategy) Send(data *EmailData, providers []Provider) (*EmailResult, error) {
	if len(providers) == 0 {
		return &EmailResult{Success: false, Error: ErrNoProviders.Error(), Provider: "none"}, ErrNoProviders
	}

	var failures []string
	for _, p := range providers {
		result, err := p.Send(data)
		if result != nil && result.Success {
			return result, nil
		}

		reason := "send failed"
		if result != nil && result.Error != "" {
			reason = result.Error
		} else if err != nil {
			reason = err.Error()
		}
		failures = append(failures, fmt.Sprintf("%s: %s", p.Name(), reason))
	}

	return &EmailResult{
		Success:  false,
		Error:    fmt.Sprintf("%s: %s", ErrAllProvidersFailed.Error(), strings.Join(failures, "; ")),
		Provider: "failover",
	}, ErrAllProvidersFailed
}

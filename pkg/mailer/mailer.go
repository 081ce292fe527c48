package mailer

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
)

var (
	ErrEmailDataRequired   = errors.New("email data is required")
	ErrAtLeastOneRecipient = errors.New("at least one recipient is required")
	ErrInvalidFromEmail    = errors.New("invalid from email address")
	ErrSubjectRequired     = errors.New("subject is required")
	ErrHTMLRequired        = errors.New("html content is required")
	ErrNoProviders         = errors.New("at least one provider is required")
	ErrProviderNil         = errors.New("provider cannot be nil")
	ErrAllProvidersFailed  = errors.New("all providers failed")
	ErrAPIKeyRequired      = errors.New("API key is required")
	ErrUnknownProvider     = errors.New("unknown mail provider")
)

type EmailData struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	BCC     []string
}

type EmailResult struct {
	Success   bool
	MessageID string
	Error     string
	Provider  string
}

// Provider is a single outbound email backend.
type Provider interface {
	Send(data *EmailData) (*EmailResult, error)
	Verify() (bool, error)
	Name() string
}

// Service fans a message out to its providers according to the configured
// strategy. Safe for concurrent use.
type Service struct {
	mu          sync.RWMutex
	providers   []Provider
	strategy    Strategy
	defaultFrom string
}

type ServiceConfig struct {
	Providers   []Provider
	Strategy    Strategy
	DefaultFrom string
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if len(cfg.Providers) == 0 {
		return nil, ErrNoProviders
	}
	for _, p := range cfg.Providers {
		if p == nil {
			return nil, ErrProviderNil
		}
	}

	strategy := cfg.Strategy
	if strategy == nil {
		strategy = &SingleProviderStrategy{}
	}

	if cfg.DefaultFrom != "" {
		if err := ValidateEmail(cfg.DefaultFrom); err != nil {
			return nil, ErrInvalidFromEmail
		}
	}

	providers := make([]Provider, len(cfg.Providers))
	copy(providers, cfg.Providers)

	return &Service{
		providers:   providers,
		strategy:    strategy,
		defaultFrom: cfg.DefaultFrom,
	}, nil
}

// NewServiceFromProviderList builds a service from the comma-separated
// MAIL_PROVIDERS setting, e.g. "resend,sendgrid". More than one provider
// gets the failover strategy in list order.
func NewServiceFromProviderList(list, defaultFrom string, resend ResendConfig, sendgrid SendGridConfig) (*Service, error) {
	var providers []Provider
	for _, name := range strings.Split(list, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case "resend":
			providers = append(providers, NewResendProvider(resend))
		case "sendgrid":
			providers = append(providers, NewSendGridProvider(sendgrid))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
	}

	var strategy Strategy = &SingleProviderStrategy{}
	if len(providers) > 1 {
		strategy = &FailoverStrategy{}
	}

	return NewService(ServiceConfig{
		Providers:   providers,
		Strategy:    strategy,
		DefaultFrom: defaultFrom,
	})
}

func (s *Service) Send(data *EmailData) (*EmailResult, error) {
	if data == nil {
		return &EmailResult{Success: false, Error: ErrEmailDataRequired.Error(), Provider: "validation"}, ErrEmailDataRequired
	}

	s.mu.RLock()
	defaultFrom := s.defaultFrom
	strategy := s.strategy
	providers := make([]Provider, len(s.providers))
	copy(providers, s.providers)
	s.mu.RUnlock()

	clone := cloneEmailData(data)
	if clone.From == "" {
		clone.From = defaultFrom
	}

	if err := ValidateEmailData(clone); err != nil {
		return &EmailResult{Success: false, Error: err.Error(), Provider: "validation"}, err
	}

	return strategy.Send(clone, providers)
}

// SendTemplate renders a template and sends the result.
func (s *Service) SendTemplate(tmpl *Template, context any, data *EmailData) (*EmailResult, error) {
	if data == nil {
		data = &EmailData{}
	}

	html, text, err := tmpl.Render(context)
	if err != nil {
		return &EmailResult{Success: false, Error: err.Error(), Provider: "template"}, err
	}

	clone := cloneEmailData(data)
	clone.HTML = html
	clone.Text = text
	if clone.Subject == "" {
		clone.Subject = tmpl.Subject
	}

	return s.Send(clone)
}

// VerifyProviders probes every configured provider.
func (s *Service) VerifyProviders() map[string]bool {
	s.mu.RLock()
	providers := make([]Provider, len(s.providers))
	copy(providers, s.providers)
	s.mu.RUnlock()

	results := make(map[string]bool, len(providers))
	for _, p := range providers {
		ok, _ := p.Verify()
		results[p.Name()] = ok
	}
	return results
}

func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	return err
}

func ValidateEmailData(data *EmailData) error {
	if data == nil {
		return ErrEmailDataRequired
	}
	if len(data.To) == 0 {
		return ErrAtLeastOneRecipient
	}
	for _, to := range data.To {
		if err := ValidateEmail(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	if err := ValidateEmail(data.From); err != nil {
		return ErrInvalidFromEmail
	}
	if data.Subject == "" {
		return ErrSubjectRequired
	}
	if data.HTML == "" {
		return ErrHTMLRequired
	}
	if data.ReplyTo != "" {
		if err := ValidateEmail(data.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	for _, bcc := range data.BCC {
		if err := ValidateEmail(bcc); err != nil {
			return fmt.Errorf("invalid bcc %q: %w", bcc, err)
		}
	}
	return nil
}

func cloneEmailData(data *EmailData) *EmailData {
	clone := *data
	if data.To != nil {
		clone.To = append([]string(nil), data.To...)
	}
	if data.BCC != nil {
		clone.BCC = append([]string(nil), data.BCC...)
	}
	return &clone
}

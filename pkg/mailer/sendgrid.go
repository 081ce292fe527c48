package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	sendGridDefaultAPIURL = "https://api.sendgrid.com"
	sendGridPathMailSend  = "/v3/mail/send"
	sendGridPathScopes    = "/v3/scopes"
	sendGridMessageIDKey  = "X-Message-Id"
)

type SendGridProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

type SendGridConfig struct {
	APIKey string
	APIURL string
}

func NewSendGridProvider(cfg SendGridConfig) *SendGridProvider {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = sendGridDefaultAPIURL
	}
	return &SendGridProvider{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		client: &http.Client{},
	}
}

func (p *SendGridProvider) Name() string {
	return "sendgrid"
}

func (p *SendGridProvider) Send(data *EmailData) (*EmailResult, error) {
	if p.apiKey == "" {
		return &EmailResult{Success: false, Error: ErrAPIKeyRequired.Error(), Provider: p.Name()}, ErrAPIKeyRequired
	}

	toList := make([]map[string]string, len(data.To))
	for i, email := range data.To {
		toList[i] = map[string]string{"email": email}
	}

	personalization := map[string]interface{}{"to": toList}
	if len(data.BCC) > 0 {
		bccList := make([]map[string]string, len(data.BCC))
		for i, email := range data.BCC {
			bccList[i] = map[string]string{"email": email}
		}
		personalization["bcc"] = bccList
	}

	content := []map[string]string{
		{"type": "text/html", "value": data.HTML},
	}
	if data.Text != "" {
		// SendGrid requires text/plain before text/html.
		content = []map[string]string{
			{"type": "text/plain", "value": data.Text},
			{"type": "text/html", "value": data.HTML},
		}
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{personalization},
		"from":             map[string]string{"email": data.From},
		"subject":          data.Subject,
		"content":          content,
	}
	if data.ReplyTo != "" {
		payload["reply_to"] = map[string]string{"email": data.ReplyTo}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &EmailResult{Success: false, Error: fmt.Sprintf("failed to marshal payload: %v", err), Provider: p.Name()}, err
	}

	req, err := http.NewRequest(http.MethodPost, p.apiURL+sendGridPathMailSend, bytes.NewBuffer(jsonData))
	if err != nil {
		return &EmailResult{Success: false, Error: fmt.Sprintf("failed to create request: %v", err), Provider: p.Name()}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &EmailResult{Success: false, Error: fmt.Sprintf("request failed: %v", err), Provider: p.Name()}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("sendgrid API returned status %d", resp.StatusCode)
		return &EmailResult{
			Success:  false,
			Error:    fmt.Sprintf("sendgrid API error %d: %s", resp.StatusCode, string(body)),
			Provider: p.Name(),
		}, err
	}

	return &EmailResult{
		Success:   true,
		MessageID: resp.Header.Get(sendGridMessageIDKey),
		Provider:  p.Name(),
	}, nil
}

func (p *SendGridProvider) Verify() (bool, error) {
	if p.apiKey == "" {
		return false, ErrAPIKeyRequired
	}

	req, err := http.NewRequest(http.MethodGet, p.apiURL+sendGridPathScopes, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	resendDefaultAPIURL = "https://api.resend.com"
	resendPathEmails    = "/emails"
	resendPathAPIKeys   = "/api-keys"
)

type ResendProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

func NewResendProvider(cfg ResendConfig) *ResendProvider {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = resendDefaultAPIURL
	}
	return &ResendProvider{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		client: &http.Client{},
	}
}

func (p *ResendProvider) Name() string {
	return "resend"
}

func (p *ResendProvider) Send(data *EmailData) (*EmailResult, error) {
	if p.apiKey == "" {
		return &EmailResult{Success: false, Error: ErrAPIKeyRequired.Error(), Provider: p.Name()}, ErrAPIKeyRequired
	}

	payload := map[string]interface{}{
		"from":    data.From,
		"to":      data.To,
		"subject": data.Subject,
		"html":    data.HTML,
	}
	if data.Text != "" {
		payload["text"] = data.Text
	}
	if data.ReplyTo != "" {
		payload["reply_to"] = data.ReplyTo
	}
	if len(data.BCC) > 0 {
		payload["bcc"] = data.BCC
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &EmailResult{Success: false, Error: fmt.Sprintf("failed to marshal payload: %v", err), Provider: p.Name()}, err
	}

	req, err := http.NewRequest(http.MethodPost, p.apiURL+resendPathEmails, bytes.NewBuffer(jsonData))
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
		err := fmt.Errorf("resend API returned status %d", resp.StatusCode)
		return &EmailResult{
			Success:  false,
			Error:    fmt.Sprintf("resend API error %d: %s", resp.StatusCode, string(body)),
			Provider: p.Name(),
		}, err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &EmailResult{Success: false, Error: fmt.Sprintf("failed to parse response: %v", err), Provider: p.Name()}, err
	}

	return &EmailResult{Success: true, MessageID: result.ID, Provider: p.Name()}, nil
}

func (p *ResendProvider) Verify() (bool, error) {
	if p.apiKey == "" {
		return false, ErrAPIKeyRequired
	}

	req, err := http.NewRequest(http.MethodGet, p.apiURL+resendPathAPIKeys, nil)
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

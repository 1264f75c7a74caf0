package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/config"
)

const defaultBaseURL = "https://api.resend.com"

// Client sends transactional email through a Resend-compatible HTTP API.
// Delivery is best effort; callers decide whether a failure is fatal.
type Client struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.MailConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers a single HTML email.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	if c.apiKey == "" {
		return fmt.Errorf("mail: no api key configured")
	}

	body, err := json.Marshal(sendReq{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("mail: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail: api status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

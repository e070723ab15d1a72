package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"learnplay-commerce/internal/config"
)

type MailClient interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type mailClientImpl struct {
	httpClient *http.Client
	baseAPIURL string
	apiKey     string
	sender     string
}

func NewMailClient(mailCfg *config.Mail) MailClient {
	return &mailClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseAPIURL: mailCfg.BaseAPIURL,
		apiKey:     mailCfg.APIKey,
		sender:     mailCfg.Sender,
	}
}

func (c *mailClientImpl) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := map[string]interface{}{
		"from":    c.sender,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseAPIURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail provider error %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

// Payload is the JSON body posted for each event. Text is a one-line
// summary suitable for chat integrations.
type Payload struct {
	Text  string       `json:"text"`
	Event entity.Event `json:"event"`
}

type Client struct {
	client     *http.Client
	url        string
	authHeader string
}

func NewClient(cfg config.Webhook) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWait
	retryClient.RetryWaitMax = max(cfg.RetryWait, defaultRetryWaitMax)
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		client:     retryClient.StandardClient(),
		url:        cfg.URL,
		authHeader: cfg.AuthHeader,
	}
}

func (c *Client) SendAlert(ctx context.Context, event entity.Event) error {
	body, err := json.Marshal(Payload{
		Text:  fmt.Sprintf("[%s] %s: %s %s", event.Workspace, event.Type, event.Subject, event.Message),
		Event: event,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send alert: status %d: %s", resp.StatusCode, respBody)
	}

	return nil
}

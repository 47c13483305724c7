package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const alertTitle = "Dropage In Prices"

// AlertzyDispatcher sends push notifications through the Alertzy API.
type AlertzyDispatcher struct {
	url        string
	accountKey string
	group      string
	client     *http.Client
}

var _ Dispatcher = (*AlertzyDispatcher)(nil)

// NewAlertzyDispatcher creates a dispatcher for the given account key
func NewAlertzyDispatcher(url, accountKey, group string) *AlertzyDispatcher {
	return &AlertzyDispatcher{
		url:        url,
		accountKey: accountKey,
		group:      group,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type alertzyPayload struct {
	AccountKey string `json:"accountKey"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Group      string `json:"group"`
}

// Send posts one notification. The account key never appears in returned
// error text.
func (a *AlertzyDispatcher) Send(ctx context.Context, message string) error {
	if a.accountKey == "" {
		return fmt.Errorf("alertzy dispatcher misconfigured: account key is empty")
	}

	body, err := json.Marshal(alertzyPayload{
		AccountKey: a.accountKey,
		Title:      alertTitle,
		Message:    message,
		Group:      a.group,
	})
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return a.redact(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return a.redact(fmt.Errorf("send alert: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alertzy error: %s", resp.Status)
	}
	return nil
}

// redact replaces the account key in error text with a placeholder
func (a *AlertzyDispatcher) redact(err error) error {
	if err == nil || a.accountKey == "" {
		return err
	}
	text := strings.ReplaceAll(err.Error(), a.accountKey, "[SECRET]")
	return fmt.Errorf("%s", text)
}

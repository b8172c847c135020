// Package payment is thin glue over the hosted checkout provider. The
// service never touches card data: it creates a checkout session for a list
// of line items and validates that a session is still live before redirecting
// to the hosted page.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// LineItem is one purchasable ancillary service.
type LineItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Session identifies a hosted checkout session.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

// CheckoutProvider creates and validates hosted checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, items []LineItem) (*Session, error)
	// ValidateSession confirms the session is live before the caller
	// redirects to it.
	ValidateSession(ctx context.Context, id string) error
}

// HTTPProvider talks to the checkout provider's REST endpoint.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider client. A nil client falls back to
// http.DefaultClient.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{baseURL: baseURL, client: client}
}

// CreateSession posts the line items and returns the session to redirect to.
func (p *HTTPProvider) CreateSession(ctx context.Context, items []LineItem) (*Session, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no line items")
	}

	body, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout response: %w", err)
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout provider returned no session id")
	}
	return &session, nil
}

// ValidateSession confirms the session exists and is still live.
func (p *HTTPProvider) ValidateSession(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/sessions/"+id, nil)
	if err != nil {
		return fmt.Errorf("failed to build session check: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("session check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checkout session %s is not live (status %d)", id, resp.StatusCode)
	}
	return nil
}

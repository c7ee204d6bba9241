// Package matching talks to the external matching service that decides
// whether a newly reported item matches an earlier report.
package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/lostfound/internal/model"
)

// Request is the body sent to POST /match.
type Request struct {
	ItemID string `json:"itemId"`
}

// ServiceError is a non-2xx answer from the matching service.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("matching service returned status %d", e.Status)
	}
	return fmt.Sprintf("matching service returned status %d: %s", e.Status, e.Detail)
}

// Client calls the matching service. It sets no timeout of its own; the
// request context and transport defaults bound each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logger.With("adapter", "matching"),
	}
}

// Match asks the service for a verdict on itemID. The verdict is returned as
// received; fields the service omitted stay empty.
func (c *Client) Match(ctx context.Context, itemID string) (*model.Verdict, error) {
	body, err := json.Marshal(Request{ItemID: itemID})
	if err != nil {
		return nil, fmt.Errorf("matching: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("matching: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.DebugContext(ctx, "match request", slog.String("item", itemID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matching: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("matching: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Status: resp.StatusCode, Detail: errorDetail(raw)}
	}

	var verdict model.Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, fmt.Errorf("matching: decode verdict: %w", err)
	}

	c.log.InfoContext(ctx, "match verdict",
		slog.String("item", itemID),
		slog.String("decision", string(verdict.Decision)),
		slog.Int("candidates", len(verdict.Candidates)),
	)
	return &verdict, nil
}

// maxDetailRunes caps how much of a non-JSON error body reaches the user.
const maxDetailRunes = 200

// errorDetail extracts a message from {"detail": ...} or {"error": ...}
// bodies, falling back to the trimmed body text.
func errorDetail(raw []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if s, ok := body.Detail.(string); ok && s != "" {
			return s
		}
		if body.Error != "" {
			return body.Error
		}
		if body.Detail != nil {
			b, _ := json.Marshal(body.Detail)
			return string(b)
		}
	}
	text := strings.TrimSpace(string(raw))
	if runes := []rune(text); len(runes) > maxDetailRunes {
		text = string(runes[:maxDetailRunes])
	}
	return text
}

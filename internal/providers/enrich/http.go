package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient calls the external summary endpoint. The endpoint is opaque; its
// request/response shape is the only contract.
type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error { return nil }

type summaryRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"userid"`
	SessionID string `json:"sessionid"`
}

type summaryResponse struct {
	Response Result `json:"response"`
}

func (c *HTTPClient) Enrich(ctx context.Context, text, userID, meetingID string) (*Result, error) {
	body, err := json.Marshal(summaryRequest{
		Text:      text,
		UserID:    userID,
		SessionID: meetingID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	const maxBytes = 1 << 20
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary api: unexpected status %d", resp.StatusCode)
	}

	var out summaryResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("summary api: decode response: %w", err)
	}
	return &out.Response, nil
}

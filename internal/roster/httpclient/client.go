// Package httpclient fetches game metadata from a remote roster service
// over its JSON API.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hooptrack/internal/roster"
)

const defaultTimeout = 5 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the roster service.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches game metadata and maps it to roster.GameInfo.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// NewClient constructs a roster client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// GameInfo retrieves metadata for one game.
func (c *Client) GameInfo(ctx context.Context, gameID string) (roster.GameInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games/"+gameID, nil)
	if err != nil {
		return roster.GameInfo{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return roster.GameInfo{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return roster.GameInfo{}, roster.ErrGameUnknown
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return roster.GameInfo{}, fmt.Errorf("roster service: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload gameInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return roster.GameInfo{}, err
	}

	info, err := mapGameInfo(payload)
	if err != nil {
		return roster.GameInfo{}, err
	}
	if info.GameID == "" {
		info.GameID = gameID
	}
	return info, nil
}

func normalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/")
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

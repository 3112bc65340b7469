package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// maxBodySize bounds how much of a Supabase response is read
const maxBodySize = 10 << 20

// Client talks to the Supabase REST (PostgREST) and Auth (GoTrue) endpoints
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	configured bool
	rest       *http.Client
	auth       *http.Client
	logger     *zap.Logger
}

// NewClient creates a Supabase client. Missing or placeholder configuration yields a client
// whose Configured() is false; it never fails.
func NewClient(cfg config.SupabaseConfig, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    cfg.BaseURL(),
		apiKey:     cfg.APIKey(),
		table:      cfg.Table,
		configured: cfg.Configured(),
		logger:     logger,
	}
	if c.table == "" {
		c.table = "transcripts"
	}
	if !c.configured {
		logger.Info("supabase not configured, primary store disabled",
			zap.Bool("url_set", c.baseURL != ""),
			zap.Bool("key_set", c.apiKey != ""),
		)
		return c
	}

	// REST calls authenticate as the project key; auth calls carry the caller's token instead
	rest := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.apiKey,
		TokenType:   "Bearer",
	}))
	rest.Timeout = timeout
	c.rest = rest
	c.auth = &http.Client{Timeout: timeout}
	return c
}

// Configured reports whether the client can reach a real project
func (c *Client) Configured() bool {
	return c != nil && c.configured
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
}

// do executes a request and returns the status and (bounded) body
func (c *Client) do(ctx context.Context, httpClient *http.Client, method, url string, body []byte, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

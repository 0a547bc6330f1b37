// Package storeclient talks to the remote patient and appointment store over
// JSON REST.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultListPath is the appointment collection path. Some deployments expose
// the joined listing at /appointments/all instead.
const DefaultListPath = "/appointments"

const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL   string
	ListPath  string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client implements the appointment, patient and doctor sources against the
// store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	listPath   string
}

// New creates a client. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid store url %q", cfg.BaseURL)
	}
	listPath := cfg.ListPath
	if listPath == "" {
		listPath = DefaultListPath
	}
	if !strings.HasPrefix(listPath, "/") {
		listPath = "/" + listPath
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		listPath: listPath,
	}, nil
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out. An empty
// response body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return newStatusError(method, path, resp.StatusCode, eb.Message)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func itemPath(collection string, id int) string {
	return fmt.Sprintf("/%s/%d", collection, id)
}

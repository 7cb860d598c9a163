// Package gitstore implements the HTTP client for the remote content store: a
// version-control hosting contents API used as an ad-hoc JSON document store.
// Documents are read as base64-wrapped blobs with an opaque version marker
// (sha) and written by overwriting the whole file with a commit message.
package gitstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rigforge/internal/observability"
)

// ErrNotFound signals that the requested document does not exist in the
// remote repository. Callers treat it as "no data yet", never as a failure.
var ErrNotFound = errors.New("gitstore: document not found")

// StatusError is any non-2xx response other than a missing document. It is
// propagated to the caller unchanged; there is no retry policy.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gitstore: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

const (
	defaultTimeout    = 30 * time.Second
	maxResponseBytes  = 16 << 20 // 16 MiB; collections are whole documents
	maxErrorBodyBytes = 32 << 10
)

// Config holds the remote repository coordinates and credentials.
type Config struct {
	// BaseURL is the contents endpoint of the backing repository, e.g.
	// https://api.github.com/repos/<owner>/<repo>/contents
	BaseURL string
	// RawBaseURL is the host serving raw file content, used to build
	// download URLs for stored images by convention.
	RawBaseURL string
	Token      string
	Timeout    time.Duration
}

// Client talks to the contents API. Safe for concurrent use.
type Client struct {
	baseURL    string
	rawBaseURL string
	token      string
	httpClient *http.Client
}

// NewClient creates a contents API client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gitstore: base URL is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("gitstore: access token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		rawBaseURL: strings.TrimRight(cfg.RawBaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// fileResponse is the wire shape of a contents API read.
type fileResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// putRequest is the wire shape of a contents API write. SHA is the last-seen
// version marker; it is omitted on first write.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// Get fetches a document and returns its decoded content plus the current
// version marker. A missing document returns ErrNotFound.
func (c *Client) Get(ctx context.Context, path string) ([]byte, string, error) {
	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}

	var file fileResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, "", fmt.Errorf("gitstore: decode %s: %w", path, err)
	}

	// The contents API wraps base64 across lines.
	raw, err := base64.StdEncoding.DecodeString(stripWhitespace(file.Content))
	if err != nil {
		return nil, "", fmt.Errorf("gitstore: decode content of %s: %w", path, err)
	}
	return raw, file.SHA, nil
}

// Put overwrites the full document content. The sha is the last-seen version
// marker from a prior Get; pass "" on first write. The commit message follows
// the store convention "Update <path>".
func (c *Client) Put(ctx context.Context, path string, content []byte, message, sha string) error {
	req := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("gitstore: marshal put %s: %w", path, err)
	}

	_, err = c.request(ctx, http.MethodPut, path, payload)
	return err
}

// Save fetches the document's current version marker (best-effort; a missing
// marker is tolerated for first writes) and overwrites the document with the
// conventional "Update <path>" message. This is the single persistence
// primitive for every collection mutation.
func (c *Client) Save(ctx context.Context, path string, content []byte) error {
	sha := ""
	if _, current, err := c.Get(ctx, path); err == nil {
		sha = current
	}

	return c.Put(ctx, path, content, "Update "+path, sha)
}

// DownloadURL reconstructs the raw fetch URL for a stored file by convention:
// raw host plus the fixed repository path plus the filename.
func (c *Client) DownloadURL(path string) string {
	if c.rawBaseURL == "" {
		return c.baseURL + "/" + path
	}
	return c.rawBaseURL + "/" + path
}

func (c *Client) request(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + "/" + path

	ctx, span := observability.TraceRemoteCall(ctx, method, path)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gitstore: create request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		observability.RemoteRequestLatency.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("gitstore: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	observability.RemoteRequestLatency.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).
		Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(errBody)),
		}
		span.RecordError(statusErr)
		return nil, statusErr
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("gitstore: read response: %w", err)
	}
	return respBody, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

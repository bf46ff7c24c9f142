package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// JobAPI defines the RunPod operations podrun needs. It is implemented by
// *Client and can be faked in tests.
type JobAPI interface {
	Submit(ctx context.Context, payload any) (*JobStatus, error)
	Status(ctx context.Context, jobID string) (*JobStatus, error)
}

// Ensure Client implements JobAPI at compile time.
var _ JobAPI = (*Client)(nil)

const (
	DefaultBaseURL    = "https://api.runpod.ai/v2"
	DefaultEndpointID = "yo0g3z9woupofk"

	defaultUserAgent      = "podrun/0.1"
	defaultRequestTimeout = 30 * time.Second
	errorBodyLimit        = 512
)

// APIError is returned when RunPod answers with a non-success status code.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Options configure NewClient. Zero values use defaults.
type Options struct {
	BaseURL        string
	EndpointID     string
	APIKey         string
	RequestTimeout time.Duration
}

// Client talks to one RunPod serverless endpoint.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
}

// NewClient builds a Client for the endpoint described by opts.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	base, err := endpointURL(opts.BaseURL, opts.EndpointID)
	if err != nil {
		return nil, err
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		apiKey:    strings.TrimSpace(opts.APIKey),
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the endpoint root, e.g. https://api.runpod.ai/v2/<id>.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// Submit posts payload to /run and returns the queued job.
func (c *Client) Submit(ctx context.Context, payload any) (*JobStatus, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var job JobStatus
	if err := c.do(ctx, http.MethodPost, "run", body, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, fmt.Errorf("submit response has no job id")
	}
	return &job, nil
}

// Status fetches the current state of jobID.
func (c *Client) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(jobID) == "" || strings.Contains(jobID, "/") {
		return nil, fmt.Errorf("invalid job id %q", jobID)
	}
	var job JobStatus
	if err := c.do(ctx, http.MethodGet, "status/"+jobID, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest *JobStatus) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			Method:     method,
			Path:       "/" + path,
			StatusCode: resp.StatusCode,
			Body:       excerpt(raw),
		}
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	dest.Raw = raw
	return nil
}

// endpointURL joins base and endpoint id into a directory-style URL so
// relative paths resolve beneath it.
func endpointURL(base, endpointID string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	id := strings.Trim(strings.TrimSpace(endpointID), "/")
	if id == "" {
		id = DefaultEndpointID
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + id + "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > errorBodyLimit {
		text = text[:errorBodyLimit] + "..."
	}
	return text
}

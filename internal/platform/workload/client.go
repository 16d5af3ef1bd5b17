package workload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/imamik/visiondeploy/internal/provisioning"
)

// DefaultTimeout bounds a single analysis run.
const DefaultTimeout = 15 * time.Minute

// Client is a minimal client for the analyzer's HTTP endpoints.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Response is the analyzer's reply to an analysis request.
type Response struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	ExitCode  *int   `json:"exit_code,omitempty"`
}

// Health is the analyzer's health report.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewClient creates a client whose analysis calls are bounded by timeout.
// A non-positive timeout selects DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Trigger starts an analysis run and waits for it to finish. Exceeding the
// client's timeout returns a *provisioning.TimeoutError. A run reported as
// failed by the analyzer is returned with an error.
func (c *Client) Trigger(ctx context.Context, appURL string) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := newRequest(callCtx, http.MethodPost, appURL, "/analyze")
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := c.do(req, &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &provisioning.TimeoutError{Operation: "analysis", Limit: c.timeout, Err: err}
		}
		return nil, fmt.Errorf("trigger analysis: %w", err)
	}

	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "analysis reported status " + resp.Status
		}
		return &resp, fmt.Errorf("analysis failed: %s", msg)
	}
	return &resp, nil
}

// Health queries the analyzer's health endpoint.
func (c *Client) Health(ctx context.Context, appURL string) (*Health, error) {
	req, err := newRequest(ctx, http.MethodGet, appURL, "/health")
	if err != nil {
		return nil, err
	}
	var h Health
	if err := c.do(req, &h); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &h, nil
}

func newRequest(ctx context.Context, method, appURL, path string) (*http.Request, error) {
	if appURL == "" {
		return nil, fmt.Errorf("no app URL")
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(appURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}
	return nil
}

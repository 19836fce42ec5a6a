package remote

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

	"github.com/cenkalti/backoff/v4"
	"github.com/marcelsud/webhook-workflow/workflow"
)

/* Client talks to a workflow runner over HTTP
 *   GET  {base}/workflow-types/{id}        -> 200 known, 404 unknown
 *   POST {base}/workflow-types/{id}/runs   -> {"attributes": {...}, "errors": [...]}
 */

// Config configures the remote engine client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries uint64 // extra attempts for activation lookups
	Headers map[string]string
}

// Client is a workflow.Engine backed by a remote runner
type Client struct {
	baseURL string
	retries uint64
	headers map[string]string
	client  *http.Client
}

type runRequest struct {
	ID          string            `json:"id"`
	ContextHint string            `json:"context_hint,omitempty"`
	Attributes  map[string]string `json:"attributes"`
}

type runResponse struct {
	Attributes map[string]string `json:"attributes"`
	Errors     []string          `json:"errors,omitempty"`
}

// NewClient creates a new remote engine client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("workflow base url cannot be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing workflow base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retries: cfg.Retries,
		headers: cfg.Headers,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Activate checks the workflow type exists and returns a new instance
func (c *Client) Activate(ctx context.Context, typeID, contextHint string) (*workflow.Instance, error) {
	endpoint := fmt.Sprintf("%s/workflow-types/%s", c.baseURL, url.PathEscape(typeID))

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		c.setHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("looking up workflow type: %w", err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%w: %s", workflow.ErrTypeNotFound, typeID))
		case resp.StatusCode >= 500:
			return fmt.Errorf("workflow runner returned status %d", resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("workflow runner returned status %d", resp.StatusCode))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return workflow.NewInstance(typeID, contextHint), nil
}

// Run posts the instance attributes and returns the outputs
func (c *Client) Run(ctx context.Context, inst *workflow.Instance) (workflow.Outcome, error) {
	body, err := json.Marshal(runRequest{
		ID:          inst.ID,
		ContextHint: inst.ContextHint,
		Attributes:  inst.Attributes,
	})
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("marshaling run request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/workflow-types/%s/runs", c.baseURL, url.PathEscape(inst.TypeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("running workflow: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("reading run response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return workflow.Outcome{}, fmt.Errorf("workflow runner returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out runResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return workflow.Outcome{}, fmt.Errorf("unmarshaling run response: %w", err)
	}

	outcome := workflow.Outcome{Attributes: out.Attributes}
	if len(out.Errors) > 0 {
		return outcome, &workflow.RunError{Errors: out.Errors}
	}
	return outcome, nil
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

var _ workflow.Engine = (*Client)(nil)

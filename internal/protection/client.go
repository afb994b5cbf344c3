package protection

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

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/oauth2"

	"github.com/wolfeidau/projinit/internal/telemetry"
)

const (
	DefaultAPIURL = "https://api.github.com"

	defaultMaxTries = 3
)

// Client calls the GitHub branch protection endpoint with a bearer token.
type Client struct {
	http     *http.Client
	baseURL  string
	maxTries uint
	backoff  func() backoff.BackOff
}

type ClientOption func(*Client)

// WithRetryInterval sets the initial delay between attempts.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = d
			return b
		}
	}
}

func NewClient(ctx context.Context, token, baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	httpClient.Timeout = 30 * time.Second

	c := &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxTries: defaultMaxTries,
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Protect replaces the protection of branch in owner/repo with policy.
// Transport errors, 5xx and 429 responses are retried; any other non-2xx
// response fails with an *APIError.
func (c *Client) Protect(ctx context.Context, owner, repo, branch string, policy Policy) error {
	body, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/branches/%s/protection",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch))

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.put(ctx, endpoint, branch, body)
	}, backoff.WithBackOff(c.backoff()), backoff.WithMaxTries(c.maxTries))

	return err
}

func (c *Client) put(ctx context.Context, endpoint, branch string, body []byte) error {
	log := zerolog.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.GetMetrics().ProtectionRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("branch", branch),
			attribute.String("status", "error"),
		))
		log.Warn().Err(err).Str("branch", branch).Msg("Branch protection request failed")
		return fmt.Errorf("failed to call GitHub API: %w", err)
	}
	defer resp.Body.Close()

	telemetry.GetMetrics().ProtectionRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("branch", branch),
		attribute.Int("status_code", resp.StatusCode),
	))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{
		Branch:     branch,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(text),
	}

	if apiErr.retryable() {
		log.Warn().Int("status_code", resp.StatusCode).Str("branch", branch).Msg("Retrying branch protection request")
		return apiErr
	}

	return backoff.Permanent(apiErr)
}

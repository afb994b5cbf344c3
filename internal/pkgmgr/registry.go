package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/projinit/internal/telemetry"
)

const registryMaxTries = 3

// Registry resolves the latest published version of npm packages.
type Registry struct {
	client  *http.Client
	baseURL string
}

// NewRegistry returns a registry client whose responses are cached in
// cacheDir, or in memory when cacheDir is empty.
func NewRegistry(baseURL, cacheDir string) *Registry {
	return NewRegistryWithClient(baseURL, newCachingHTTPClient(cacheDir))
}

func NewRegistryWithClient(baseURL string, client *http.Client) *Registry {
	return &Registry{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func newCachingHTTPClient(cacheDir string) *http.Client {
	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cacheDir != "" {
		cache = diskcache.New(cacheDir)
	}

	return &http.Client{
		Transport: httpcache.NewTransport(cache),
		Timeout:   30 * time.Second,
	}
}

type packument struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Latest returns the version tagged latest for name. Transient failures are
// retried; an unknown package fails with ErrPackageNotFound.
func (r *Registry) Latest(ctx context.Context, name string) (string, error) {
	telemetry.GetMetrics().RegistryLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("package", name)))

	endpoint := r.baseURL + "/" + url.PathEscape(name) + "/latest"

	version, err := backoff.Retry(ctx, func() (string, error) {
		return r.fetchLatest(ctx, endpoint, name)
	}, backoff.WithBackOff(newBackOff()), backoff.WithMaxTries(registryMaxTries))
	if err != nil {
		return "", fmt.Errorf("error when fetching the latest version for %s: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("package", name).Str("version", version).Msg("Resolved latest version")

	return version, nil
}

// LatestSpec returns name@version for the latest published version.
func (r *Registry) LatestSpec(ctx context.Context, name string) (string, error) {
	version, err := r.Latest(ctx, name)
	if err != nil {
		return "", err
	}
	return name + "@" + version, nil
}

func (r *Registry) fetchLatest(ctx context.Context, endpoint, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", backoff.Permanent(fmt.Errorf("%w: %s", ErrPackageNotFound, name))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s", ErrRegistry, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return "", backoff.Permanent(fmt.Errorf("%w: %s", ErrRegistry, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrRegistry, err)
	}

	var p packument
	if err := json.Unmarshal(body, &p); err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: invalid response: %w", ErrRegistry, err))
	}
	if p.Version == "" {
		return "", backoff.Permanent(fmt.Errorf("%w: no version in response", ErrRegistry))
	}

	return p.Version, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

package livescore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxPayloadBytes = 4 << 20

type HTTPFetcherConfig struct {
	// URL is the full live-scores endpoint, e.g. http://localhost:8080/api/live-scores.
	URL     string
	Timeout time.Duration
}

// HTTPFetcher reads the live-scores endpoint.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(cfg HTTPFetcherConfig, client *http.Client) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPFetcher{url: strings.TrimSpace(cfg.URL), client: client}
}

// Fetch decodes the body on every status; a {success:false, error} body becomes an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) (usecase.LiveScores, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return usecase.LiveScores{}, fmt.Errorf("build live scores request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return usecase.LiveScores{}, fmt.Errorf("%w: live scores request: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return usecase.LiveScores{}, fmt.Errorf("read live scores body: %w", err)
	}

	var body struct {
		usecase.LiveScores
		Error string `json:"error"`
	}
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return usecase.LiveScores{}, fmt.Errorf("decode live scores status=%d: %w", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return usecase.LiveScores{}, fmt.Errorf("%w: %s", usecase.ErrRateLimited, body.Error)
	case resp.StatusCode >= 300 || !body.Success:
		return usecase.LiveScores{}, fmt.Errorf("live scores status=%d: %s", resp.StatusCode, body.Error)
	}
	return body.LiveScores, nil
}

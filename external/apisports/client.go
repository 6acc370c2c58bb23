package apisports

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/platform/resilience"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 4 << 20
)

var errAPISportsTransient = crerr.New("api-sports transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to API-Football v3 over fasthttp.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

var _ usecase.LiveFixtureProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "livebaz",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodyBytes,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		logger:  logger.Named("apisports"),
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

type envelope struct {
	Results  int          `json:"results"`
	Errors   any          `json:"errors"`
	Response []fixtureDTO `json:"response"`
}

type fixtureDTO struct {
	Fixture struct {
		ID     int64 `json:"id"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// ListLiveFixtures returns every fixture currently in play.
func (c *Client) ListLiveFixtures(ctx context.Context) ([]usecase.ExternalLiveFixture, error) {
	raw, err := c.get(ctx, "/fixtures?live=all")
	if err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode live fixtures: %w", err)
	}
	if msg := providerErrors(env.Errors); msg != "" {
		return nil, fmt.Errorf("api-sports rejected request: %s", msg)
	}

	out := make([]usecase.ExternalLiveFixture, 0, len(env.Response))
	for _, item := range env.Response {
		out = append(out, usecase.ExternalLiveFixture{
			ExternalID: item.Fixture.ID,
			LeagueName: item.League.Name,
			HomeTeam:   item.Teams.Home.Name,
			AwayTeam:   item.Teams.Away.Name,
			HomeGoals:  item.Goals.Home,
			AwayGoals:  item.Goals.Away,
			Status:     item.Fixture.Status.Short,
			Elapsed:    item.Fixture.Status.Elapsed,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, pathAndQuery string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api-sports key is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "api-sports circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: api-sports is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	raw, err := c.do(ctx, pathAndQuery)
	c.breaker.Record(err, func(err error) bool { return stderrors.Is(err, errAPISportsTransient) })
	return raw, err
}

func (c *Client) do(ctx context.Context, pathAndQuery string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + pathAndQuery)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errAPISportsTransient, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	switch {
	case status >= 200 && status < 300:
		c.logger.DebugContext(ctx, "api-sports quota",
			"remaining", string(resp.Header.Peek("x-ratelimit-requests-remaining")),
		)
		return append([]byte(nil), body...), nil
	case status == fasthttp.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %w: provider status=%d", errAPISportsTransient, usecase.ErrRateLimited, status)
	case status >= fasthttp.StatusInternalServerError:
		return nil, fmt.Errorf("%w: provider status=%d", errAPISportsTransient, status)
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviate(body))
	}
}

// providerErrors flattens the "errors" field, which is [] when empty and an object keyed by field otherwise.
func providerErrors(raw any) string {
	switch v := raw.(type) {
	case map[string]any:
		parts := make([]string, 0, len(v))
		for key, msg := range v {
			parts = append(parts, fmt.Sprintf("%s: %v", key, msg))
		}
		return strings.Join(parts, "; ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, msg := range v {
			parts = append(parts, fmt.Sprint(msg))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 200 {
		return text
	}
	return text[:200] + "..."
}

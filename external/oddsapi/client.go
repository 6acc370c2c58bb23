package oddsapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/livebaz/internal/domain/odds"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/platform/resilience"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com/v4"
	defaultRegions = "eu"
	maxBodyBytes   = 6 << 20
)

var (
	apiKeyParamRegex    = regexp.MustCompile(`apiKey=[^&\s"']+`)
	errOddsAPITransient = crerr.New("odds api transient failure")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Regions        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads events, prices and scores from The Odds API v4. It implements usecase.OddsProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	regions    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
	validate   *validator.Validate
	backoff    func(attempt int) time.Duration
}

var _ usecase.OddsProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	regions := strings.TrimSpace(cfg.Regions)
	if regions == "" {
		regions = defaultRegions
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		regions:    regions,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger.Named("oddsapi"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		validate:   validator.New(),
		backoff:    func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second },
	}
}

func (c *Client) ListEvents(ctx context.Context, sportKey string) ([]usecase.ExternalEvent, error) {
	var items []eventDTO
	if err := getList(c, ctx, "/sports/"+url.PathEscape(sportKey)+"/events", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch events sport_key=%s: %w", sportKey, err)
	}

	out := make([]usecase.ExternalEvent, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalEvent{
			ID:           item.ID,
			SportKey:     firstNonEmpty(item.SportKey, sportKey),
			HomeTeam:     strings.TrimSpace(item.HomeTeam),
			AwayTeam:     strings.TrimSpace(item.AwayTeam),
			CommenceTime: item.CommenceTime.UTC(),
		})
	}
	return out, nil
}

func (c *Client) ListOdds(ctx context.Context, sportKey string) ([]odds.Event, error) {
	query := map[string]string{
		"regions":    c.regions,
		"markets":    odds.MarketHeadToHead,
		"oddsFormat": "decimal",
	}
	var items []oddsEventDTO
	if err := getList(c, ctx, "/sports/"+url.PathEscape(sportKey)+"/odds", query, &items); err != nil {
		return nil, fmt.Errorf("fetch odds sport_key=%s: %w", sportKey, err)
	}

	out := make([]odds.Event, 0, len(items))
	for _, item := range items {
		event := odds.Event{
			ID:         item.ID,
			HomeTeam:   item.HomeTeam,
			AwayTeam:   item.AwayTeam,
			Bookmakers: make([]odds.Bookmaker, 0, len(item.Bookmakers)),
		}
		for _, bm := range item.Bookmakers {
			bookmaker := odds.Bookmaker{Key: bm.Key, Title: bm.Title, Markets: make([]odds.Market, 0, len(bm.Markets))}
			for _, m := range bm.Markets {
				market := odds.Market{Key: m.Key, Outcomes: make([]odds.Outcome, 0, len(m.Outcomes))}
				for _, o := range m.Outcomes {
					market.Outcomes = append(market.Outcomes, odds.Outcome{Name: o.Name, Price: o.Price})
				}
				bookmaker.Markets = append(bookmaker.Markets, market)
			}
			event.Bookmakers = append(event.Bookmakers, bookmaker)
		}
		out = append(out, event)
	}
	return out, nil
}

func (c *Client) ListScores(ctx context.Context, sportKey string, daysFrom int) ([]usecase.ExternalScoreEvent, error) {
	query := map[string]string{}
	if daysFrom > 0 {
		query["daysFrom"] = strconv.Itoa(daysFrom)
	}
	var items []scoreEventDTO
	if err := getList(c, ctx, "/sports/"+url.PathEscape(sportKey)+"/scores", query, &items); err != nil {
		return nil, fmt.Errorf("fetch scores sport_key=%s: %w", sportKey, err)
	}

	out := make([]usecase.ExternalScoreEvent, 0, len(items))
	for _, item := range items {
		event := usecase.ExternalScoreEvent{
			ID:           item.ID,
			SportKey:     firstNonEmpty(item.SportKey, sportKey),
			HomeTeam:     item.HomeTeam,
			AwayTeam:     item.AwayTeam,
			Completed:    item.Completed,
			CommenceTime: item.CommenceTime.UTC(),
		}
		for _, s := range item.Scores {
			score, err := parseScore(s.Score)
			if err != nil {
				return nil, fmt.Errorf("fetch scores sport_key=%s: event %s: %w", sportKey, item.ID, err)
			}
			event.Scores = append(event.Scores, usecase.ExternalScore{Name: s.Name, Score: score})
		}
		out = append(out, event)
	}
	return out, nil
}

// ListSports returns the sports the key has access to. It costs no quota.
func (c *Client) ListSports(ctx context.Context) ([]Sport, error) {
	var items []Sport
	if err := getList(c, ctx, "/sports", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch sports: %w", err)
	}
	return items, nil
}

// getList fetches path and decodes a JSON array into target, validating every item.
func getList[T any](c *Client, ctx context.Context, path string, query map[string]string, target *[]T) error {
	raw, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	if err := c.validate.StructCtx(ctx, payload[T]{Items: *target}); err != nil {
		return fmt.Errorf("invalid provider payload: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: odds api key is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "odds api circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.buildURL(path, query)
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isCircuitFailure)
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}
	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) buildURL(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("apiKey", c.apiKey)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	_ = buf.WriteByte('?')
	_, _ = buf.WriteString(values.Encode())
	return buf.String()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errOddsAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errOddsAPITransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				c.logger.DebugContext(ctx, "odds api quota",
					"remaining", resp.Header.Get("x-requests-remaining"),
					"used", resp.Header.Get("x-requests-used"),
				)
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: %w: provider status=%d body=%s", errOddsAPITransient, usecase.ErrRateLimited, resp.StatusCode, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOddsAPITransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, sanitizeSensitiveText(abbreviateBody(raw), c.apiKey))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "odds api request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid score %q", raw)
	}
	return int(value), nil
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errOddsAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("apiKey") {
		query.Set("apiKey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

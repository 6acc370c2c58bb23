package jobqueue

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/platform/resilience"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errQStashTransient = crerr.New("qstash transient failure")

type QStashConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStash schedules sync jobs as delayed HTTP callbacks to this service.
type QStash struct {
	client           *http.Client
	publishBase      string
	targetBase       string
	token            string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

var _ usecase.JobQueue = (*QStash)(nil)

// NewQStash validates both base URLs up front so misconfiguration fails at startup.
func NewQStash(cfg QStashConfig, logger *logging.Logger) (*QStash, error) {
	if logger == nil {
		logger = logging.Default()
	}
	publishBase, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBase, err := validateHTTPBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &QStash{
		client:           &http.Client{Timeout: timeout},
		publishBase:      publishBase,
		targetBase:       targetBase,
		token:            strings.TrimSpace(cfg.Token),
		retries:          max(cfg.Retries, 0),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger.Named("qstash"),
		breaker:          resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}, nil
}

func (q *QStash) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	if path == "/" {
		return fmt.Errorf("%w: job path is required", usecase.ErrInvalidInput)
	}
	if err := q.breaker.Allow(); err != nil {
		q.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", q.breaker.State())
		return fmt.Errorf("%w: qstash is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	err := q.publish(ctx, path, payload, delay, strings.TrimSpace(dedupID))
	q.breaker.Record(err, func(err error) bool { return stderrors.Is(err, errQStashTransient) })
	return err
}

func (q *QStash) publish(ctx context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	targetURL := q.targetBase + path
	publishURL := q.publishBase + "/v2/publish/" + targetURL

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.dedup_id", dedupID),
			attribute.String("qstash.delay", formatDelay(delay)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+q.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if q.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(q.retries))
	}
	if delay > 0 {
		req.Header.Set("Upstash-Delay", formatDelay(delay))
	}
	if dedupID != "" {
		req.Header.Set("Upstash-Deduplication-Id", dedupID)
	}
	if q.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", q.internalJobToken)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish target_url=%s: %v", errQStashTransient, targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: publish status=%d target_url=%s body=%s", errQStashTransient, resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("publish status=%d target_url=%s body=%s", resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
	}

	q.logger.InfoContext(ctx, "sync job queued", "path", path, "delay", formatDelay(delay), "dedup_id", dedupID)
	return nil
}

func formatDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/livebaz/internal/platform/resilience"
)

// ErrMiss is returned by backends when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Backend stores opaque payloads with a per-key TTL.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// JSONLoader caches sonic-encoded values on top of a Backend and collapses concurrent misses.
type JSONLoader struct {
	backend Backend
	ttl     time.Duration
	flight  resilience.SingleFlight
}

func NewJSONLoader(backend Backend, ttl time.Duration) *JSONLoader {
	return &JSONLoader{backend: backend, ttl: ttl}
}

// GetOrLoad decodes the cached value into target, or calls load and caches its result.
// Backend errors never fail the call; the loader result is returned uncached instead.
func (l *JSONLoader) GetOrLoad(ctx context.Context, key string, target any, load func(context.Context) (any, error)) error {
	if load == nil {
		return fmt.Errorf("loader is required")
	}
	if l == nil || l.backend == nil || key == "" {
		value, err := load(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, target)
	}

	if raw, err := l.backend.Get(ctx, key); err == nil {
		if decodeErr := sonic.Unmarshal(raw, target); decodeErr == nil {
			return nil
		}
	}

	out, err, _ := l.flight.Do(key, func() (any, error) {
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		raw, encodeErr := sonic.Marshal(value)
		if encodeErr != nil {
			return nil, fmt.Errorf("encode cache value: %w", encodeErr)
		}
		_ = l.backend.Set(ctx, key, raw, l.ttl)
		return raw, nil
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cache payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode cache value: %w", err)
	}
	return nil
}

func (l *JSONLoader) Invalidate(ctx context.Context, keys ...string) error {
	if l == nil || l.backend == nil {
		return nil
	}
	return l.backend.Delete(ctx, keys...)
}

func roundTrip(value, target any) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return sonic.Unmarshal(raw, target)
}

package eventbus

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"github.com/streadway/amqp"
)

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// channel is the slice of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url string) (channel, func() error, error)

// AMQPPublisher emits sync.completed events to a durable topic exchange.
// The connection is opened lazily and dropped after a failed publish so the next event redials.
type AMQPPublisher struct {
	cfg    AMQPConfig
	dial   dialFunc
	logger *logging.Logger

	mu        sync.Mutex
	ch        channel
	closeConn func() error
}

var _ usecase.SyncEventPublisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(cfg AMQPConfig, logger *logging.Logger) *AMQPPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return newAMQPPublisher(cfg, dialAMQP, logger)
}

func newAMQPPublisher(cfg AMQPConfig, dial dialFunc, logger *logging.Logger) *AMQPPublisher {
	if strings.TrimSpace(cfg.Exchange) == "" {
		cfg.Exchange = "livebaz.events"
	}
	if strings.TrimSpace(cfg.RoutingKey) == "" {
		cfg.RoutingKey = "sync.completed"
	}
	return &AMQPPublisher{cfg: cfg, dial: dial, logger: logger.Named("amqp")}
}

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: 30 * time.Second, Locale: "en_US"})
	if err != nil {
		return nil, nil, fmt.Errorf("dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

func (p *AMQPPublisher) PublishSyncCompleted(ctx context.Context, event usecase.SyncCompletedEvent) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal sync event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.channelLocked()
	if err != nil {
		return fmt.Errorf("%w: amqp: %v", usecase.ErrDependencyUnavailable, err)
	}

	err = ch.Publish(p.cfg.Exchange, p.cfg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RunID,
		Timestamp:    event.FinishedAt,
		Type:         p.cfg.RoutingKey,
		Body:         body,
	})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("publish %s: %w", p.cfg.RoutingKey, err)
	}
	p.logger.DebugContext(ctx, "sync event published", "run_id", event.RunID, "sport_key", event.SportKey)
	return nil
}

func (p *AMQPPublisher) channelLocked() (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, closeConn, err := p.dial(p.cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(p.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closeConn != nil {
			_ = closeConn()
		}
		return nil, fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}
	p.ch = ch
	p.closeConn = closeConn
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch = nil
	p.closeConn = nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

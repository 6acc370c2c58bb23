package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/usecase"
)

const defaultStreamInterval = 60 * time.Second

type liveScoreReader interface {
	Live(ctx context.Context) (usecase.LiveScores, error)
}

type diagnosticsChecker interface {
	Check(ctx context.Context) usecase.Diagnostics
}

type syncRunner interface {
	Run(ctx context.Context, sportKey string) (syncrun.Run, error)
	GetRun(ctx context.Context, runID string) (syncrun.Run, error)
	ListRuns(ctx context.Context, sportKey string, limit int) ([]syncrun.Run, error)
}

type syncDispatcher interface {
	DispatchAll(ctx context.Context) (usecase.DispatchResult, error)
	HandleJob(ctx context.Context, input usecase.SyncJobInput) (usecase.SyncResult, error)
}

type translationBackfiller interface {
	Backfill(ctx context.Context, entity, entityID string) (usecase.CompletionReport, error)
}

type contentReader interface {
	ListLeagues(ctx context.Context, languageCode string) ([]usecase.LocalizedLeague, error)
	ListBookmakers(ctx context.Context, languageCode string) ([]usecase.LocalizedBookmaker, error)
}

// Services groups what the handler serves; a nil member answers 503 on its routes.
type Services struct {
	LiveScores   liveScoreReader
	Diagnostics  diagnosticsChecker
	Runner       syncRunner
	Dispatcher   syncDispatcher
	Translations translationBackfiller
	Content      contentReader
}

type Handler struct {
	services       Services
	streamInterval time.Duration
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(services Services, streamInterval time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if streamInterval <= 0 {
		streamInterval = defaultStreamInterval
	}

	return &Handler{
		services:       services,
		streamInterval: streamInterval,
		logger:         logger.Named("httpapi"),
		validator:      validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func notConfigured(name string) error {
	return fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name)
}

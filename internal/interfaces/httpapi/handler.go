package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

const healthPingTimeout = 2 * time.Second

type playerRefresher interface {
	TriggerIngestion(ctx context.Context, playerKey, platform string, maxMatches int) (usecase.RefreshResult, error)
}

type ingestionRunner interface {
	RunOnce(ctx context.Context) (usecase.BatchResult, error)
}

type timelineReader interface {
	EnsureTimeline(ctx context.Context, matchID int64) ([]timeline.Entry, error)
}

type matchLister interface {
	GetMatchesForPlayer(ctx context.Context, identityID int64, page int, filters usecase.MatchFilters) (usecase.MatchPage, error)
}

// Pinger reports storage reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	refresher playerRefresher
	ingestion ingestionRunner
	timelines timelineReader
	matches   matchLister
	db        Pinger
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	refresher playerRefresher,
	ingestion ingestionRunner,
	timelines timelineReader,
	matches matchLister,
	db Pinger,
	logger *logging.Logger,
) *Handler {
	return &Handler{
		refresher: refresher,
		ingestion: ingestion,
		timelines: timelines,
		matches:   matches,
		db:        db,
		logger:    logging.OrDefault(logger).Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			h.logger.WarnContext(ctx, "health check ping failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: database ping failed", usecase.ErrDependencyUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

const maxRequestBodyBytes = 1 << 16

func (h *Handler) RefreshPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshPlayer")
	defer span.End()

	if h.refresher == nil {
		writeError(ctx, w, fmt.Errorf("%w: player refresh is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	puuid := strings.TrimSpace(r.PathValue("puuid"))
	if puuid == "" {
		writeError(ctx, w, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput))
		return
	}

	var req refreshPlayerRequest
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.refresher.TriggerIngestion(ctx, puuid, req.Platform, req.MaxMatches)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh player failed", "puuid", puuid, "platform", req.Platform, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, result)
}

// RunIngestJob runs one ingestion tick synchronously, queueing behind any
// tick already in flight.
func (h *Handler) RunIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestJob")
	defer span.End()

	if h.ingestion == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.ingestion.RunOnce(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

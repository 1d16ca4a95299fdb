package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

func (h *Handler) ListIdentityMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIdentityMatches")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, fmt.Errorf("%w: match queries are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	identityID, err := parsePathID(r.PathValue("identityID"), "identityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	page, filters, err := parseMatchListQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matches.GetMatchesForPlayer(ctx, identityID, page, filters)
	if err != nil {
		h.logger.WarnContext(ctx, "list identity matches failed", "identity_id", identityID, "page", page, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPageToDTO(result))
}

func (h *Handler) GetMatchTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchTimeline")
	defer span.End()

	if h.timelines == nil {
		writeError(ctx, w, fmt.Errorf("%w: timelines are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID, err := parsePathID(r.PathValue("matchID"), "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.timelines.EnsureTimeline(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match timeline failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, timelineToDTO(matchID, entries))
}

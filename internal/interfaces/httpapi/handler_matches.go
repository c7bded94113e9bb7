package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	statusFilter := strings.TrimSpace(r.URL.Query().Get("status"))
	matches, err := h.matchService.ListMatches(ctx, statusFilter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "status", statusFilter, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, item))
}

func (h *Handler) ListParticipationsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipationsByMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	entries, err := h.participationService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list participations failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participationDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, participationToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

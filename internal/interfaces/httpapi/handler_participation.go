package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type joinParticipationRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	Points  int    `json:"points" validate:"gte=0"`
}

func (h *Handler) JoinParticipation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinParticipation")
	defer span.End()

	var req joinParticipationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.participationService.JoinMatch(ctx, usecase.JoinMatchInput{
		MatchID: req.MatchID,
		UserID:  req.UserID,
		Points:  req.Points,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join participation failed", "match_id", req.MatchID, "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participationToDTO(ctx, entry))
}

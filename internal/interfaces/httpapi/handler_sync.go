package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type internalJobSyncRequest struct {
	SeriesID string `json:"series_id"`
	Force    bool   `json:"force"`
}

// RunMatchSyncJob triggers one sync pass. The orchestrator folds feed
// failures into the verdict, so the caller always gets a structured
// {success, syncedMatches, message} payload.
func (h *Handler) RunMatchSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMatchSyncJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.jobOrchestrator.RunMatchSync(ctx, usecase.JobSyncInput{
		SeriesID: req.SeriesID,
		Force:    req.Force,
	})
	if !result.Success {
		h.logger.WarnContext(ctx, "match sync job did not succeed", "series_id", req.SeriesID, "message", result.Message)
		writeJSON(ctx, w, http.StatusBadGateway, googleResponseEnvelope{
			APIVersion: googleAPIVersion,
			Data:       result,
		})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.jobOrchestrator.Bootstrap(ctx, usecase.JobSyncInput{
		SeriesID: req.SeriesID,
		Force:    req.Force,
	}); err != nil {
		h.logger.WarnContext(ctx, "bootstrap job failed", "series_id", req.SeriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"queued": true})
}

func decodeInternalJobSyncRequest(r *http.Request) (internalJobSyncRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobSyncRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobSyncRequest{}, nil
		}
		return internalJobSyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

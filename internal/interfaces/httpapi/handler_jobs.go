package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/pollahq/polla-champions/internal/usecase"
)

const maxJobBodyBytes = 1 << 20

type refreshJobRequest struct {
	CompetitionIDs []string `json:"competition_ids" validate:"omitempty,dive,required"`
	MaxWorkers     int      `json:"max_workers" validate:"omitempty,min=1,max=64"`
	WriteSnapshot  bool     `json:"write_snapshot"`
}

type refreshTaskDTO struct {
	CompetitionID string `json:"competition_id"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	TeamCount     int    `json:"team_count"`
	SnapshotID    string `json:"snapshot_id,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
}

type refreshJobResponse struct {
	CompetitionCount int              `json:"competition_count"`
	WorkerCount      int              `json:"worker_count"`
	SuccessCount     int              `json:"success_count"`
	DegradedCount    int              `json:"degraded_count"`
	FailedCount      int              `json:"failed_count"`
	Tasks            []refreshTaskDTO `json:"tasks"`
}

func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	var req refreshJobRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJobBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
			return
		}
		if err := h.validateRequest(ctx, req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	result, err := h.refreshService.RefreshAll(ctx, usecase.RefreshInput{
		CompetitionIDs: req.CompetitionIDs,
		MaxWorkers:     req.MaxWorkers,
		WriteSnapshot:  req.WriteSnapshot,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	tasks := make([]refreshTaskDTO, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		tasks = append(tasks, refreshTaskDTO{
			CompetitionID: task.CompetitionID,
			Status:        task.Status,
			Message:       task.Message,
			TeamCount:     task.TeamCount,
			SnapshotID:    task.SnapshotID,
			DurationMs:    task.DurationMs,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, refreshJobResponse{
		CompetitionCount: result.CompetitionCount,
		WorkerCount:      result.WorkerCount,
		SuccessCount:     result.SuccessCount,
		DegradedCount:    result.DegradedCount,
		FailedCount:      result.FailedCount,
		Tasks:            tasks,
	})
}

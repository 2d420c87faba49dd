package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/usecase"
)

type teamResultDTO struct {
	InputLabel   string `json:"input_label"`
	ResolvedName string `json:"resolved_name,omitempty"`
	Score        int    `json:"score"`
	Points       int    `json:"points"`
	Note         string `json:"note,omitempty"`
}

type assignmentDTO struct {
	Position      int             `json:"position"`
	ParticipantID string          `json:"participant_id"`
	Teams         []teamResultDTO `json:"teams"`
	TotalPoints   int             `json:"total_points"`
}

type rankingDTO struct {
	CompetitionID string          `json:"competition_id"`
	Standings     []assignmentDTO `json:"standings"`
}

type snapshotDTO struct {
	ID            string          `json:"id"`
	CompetitionID string          `json:"competition_id"`
	SourceLabel   string          `json:"source_label"`
	Standings     []assignmentDTO `json:"standings"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRanking")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	assignments, table, err := h.rankingService.GetRanking(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ranking failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingDTO{
		CompetitionID: table.CompetitionID,
		Standings:     assignmentsToDTO(assignments),
	})
}

func (h *Handler) ListRankingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankingHistory")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	snapshots, err := h.rankingService.History(ctx, competitionID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list ranking history failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]snapshotDTO, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, snapshotDTO{
			ID:            snapshot.ID,
			CompetitionID: snapshot.CompetitionID,
			SourceLabel:   snapshot.SourceLabel,
			Standings:     assignmentsToDTO(snapshot.Assignments),
			CreatedAt:     snapshot.CreatedAt,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func assignmentsToDTO(assignments []ranking.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(assignments))
	for idx, assignment := range assignments {
		teams := make([]teamResultDTO, 0, len(assignment.PerTeam))
		for _, team := range assignment.PerTeam {
			teams = append(teams, teamResultDTO{
				InputLabel:   team.InputLabel,
				ResolvedName: team.ResolvedName,
				Score:        team.Score,
				Points:       team.Points,
				Note:         team.Note,
			})
		}
		out = append(out, assignmentDTO{
			Position:      idx + 1,
			ParticipantID: assignment.ParticipantID,
			Teams:         teams,
			TotalPoints:   assignment.TotalPoints,
		})
	}
	return out
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/pollahq/polla-champions/internal/domain/standings"
)

type standingsRowDTO struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Points         int    `json:"points"`
	GoalDifference int    `json:"goal_difference"`
	GoalsFor       int    `json:"goals_for"`
	Played         int    `json:"played,omitempty"`
	Won            int    `json:"won,omitempty"`
	Draw           int    `json:"draw,omitempty"`
	Lost           int    `json:"lost,omitempty"`
}

type standingsTableDTO struct {
	CompetitionID string            `json:"competition_id"`
	Rows          []standingsRowDTO `json:"rows"`
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.standingsService.ListCompetitions(ctx))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	table, err := h.standingsService.GetTable(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableToDTO(table))
}

func tableToDTO(table standings.Table) standingsTableDTO {
	out := standingsTableDTO{
		CompetitionID: table.CompetitionID,
		Rows:          make([]standingsRowDTO, 0, len(table.Rows)),
	}
	for idx, row := range table.Rows {
		out.Rows = append(out.Rows, standingsRowDTO{
			Position:       idx + 1,
			Team:           row.CanonicalName,
			Points:         row.Points,
			GoalDifference: row.GoalDifference,
			GoalsFor:       row.GoalsFor,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
		})
	}
	return out
}

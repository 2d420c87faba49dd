// Package console renders standings and pool rankings as plain text
// tables and CSV, for the one-shot command line mode.
package console

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/domain/standings"
)

// RenderStandings writes the competition table as aligned plain text.
func RenderStandings(w io.Writer, table standings.Table) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	nameWidth := len("Team")
	for _, row := range table.Rows {
		if len(row.CanonicalName) > nameWidth {
			nameWidth = len(row.CanonicalName)
		}
	}

	_, _ = fmt.Fprintf(buf, "Standings: %s\n", table.CompetitionID)
	_, _ = fmt.Fprintf(buf, "%3s  %-*s  %4s  %4s  %4s\n", "#", nameWidth, "Team", "Pts", "GD", "GF")
	for idx, row := range table.Rows {
		_, _ = fmt.Fprintf(buf, "%3d  %-*s  %4d  %+4d  %4d\n",
			idx+1, nameWidth, row.CanonicalName, row.Points, row.GoalDifference, row.GoalsFor)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// RenderRanking writes the pool ranking with per-team breakdown lines.
// Correction notes appear beneath the participant that earned them.
func RenderRanking(w io.Writer, competitionID string, assignments []ranking.Assignment) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	idWidth := len("Participant")
	for _, assignment := range assignments {
		if len(assignment.ParticipantID) > idWidth {
			idWidth = len(assignment.ParticipantID)
		}
	}

	_, _ = fmt.Fprintf(buf, "Pool ranking: %s\n", competitionID)
	_, _ = fmt.Fprintf(buf, "%3s  %-*s  %5s\n", "#", idWidth, "Participant", "Total")
	for idx, assignment := range assignments {
		_, _ = fmt.Fprintf(buf, "%3d  %-*s  %5d\n", idx+1, idWidth, assignment.ParticipantID, assignment.TotalPoints)
		for _, team := range assignment.PerTeam {
			name := team.ResolvedName
			if name == "" {
				name = team.InputLabel
			}
			_, _ = fmt.Fprintf(buf, "     - %s: %d\n", name, team.Points)
			if team.Note != "" {
				_, _ = fmt.Fprintf(buf, "       note: %s\n", team.Note)
			}
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteRankingCSV writes one row per participant team pick, flat enough
// to open in a spreadsheet.
func WriteRankingCSV(w io.Writer, competitionID string, assignments []ranking.Assignment) error {
	cw := csv.NewWriter(w)

	header := []string{"position", "participant_id", "competition_id", "team_label", "resolved_name", "match_score", "team_points", "total_points", "note"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for idx, assignment := range assignments {
		for _, team := range assignment.PerTeam {
			record := []string{
				strconv.Itoa(idx + 1),
				assignment.ParticipantID,
				competitionID,
				team.InputLabel,
				team.ResolvedName,
				strconv.Itoa(team.Score),
				strconv.Itoa(team.Points),
				strconv.Itoa(assignment.TotalPoints),
				team.Note,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv record: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

package console

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/domain/standings"
)

func sampleAssignments() []ranking.Assignment {
	return []ranking.Assignment{
		{
			ParticipantID: "Daniela",
			TotalPoints:   22,
			PerTeam: []ranking.TeamResult{
				{InputLabel: "Real Madrid", ResolvedName: "Real Madrid", Score: 100, Points: 12},
				{InputLabel: "Liverpool", ResolvedName: "Liverpool", Score: 100, Points: 10},
			},
		},
		{
			ParticipantID: "Marco",
			TotalPoints:   10,
			PerTeam: []ranking.TeamResult{
				{InputLabel: "Liverpool", ResolvedName: "Liverpool", Score: 100, Points: 10},
				{InputLabel: "Unknown FC", Score: 0, Points: 0, Note: "not found: Unknown FC"},
			},
		},
	}
}

func TestRenderStandings(t *testing.T) {
	t.Parallel()

	table := standings.NewTable("ucl", []standings.Row{
		{CanonicalName: "Real Madrid", Points: 12, GoalDifference: 8, GoalsFor: 15},
		{CanonicalName: "Liverpool", Points: 10, GoalDifference: 5, GoalsFor: 11},
	})

	var buf bytes.Buffer
	if err := RenderStandings(&buf, table); err != nil {
		t.Fatalf("RenderStandings: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Standings: ucl") {
		t.Fatalf("missing header: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[2], "Real Madrid") || !strings.Contains(lines[3], "Liverpool") {
		t.Fatalf("rows out of order: %q", out)
	}
	if !strings.Contains(lines[2], "+8") {
		t.Fatalf("goal difference not signed: %q", lines[2])
	}
}

func TestRenderRanking(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderRanking(&buf, "ucl", sampleAssignments()); err != nil {
		t.Fatalf("RenderRanking: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Pool ranking: ucl") {
		t.Fatalf("missing header: %q", out)
	}
	danielaIdx := strings.Index(out, "Daniela")
	marcoIdx := strings.Index(out, "Marco")
	if danielaIdx < 0 || marcoIdx < 0 || danielaIdx > marcoIdx {
		t.Fatalf("participants missing or out of order: %q", out)
	}
	if !strings.Contains(out, "note: not found: Unknown FC") {
		t.Fatalf("missing correction note: %q", out)
	}
	if !strings.Contains(out, "- Unknown FC: 0") {
		t.Fatalf("unresolved pick should fall back to the input label: %q", out)
	}
}

func TestWriteRankingCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteRankingCSV(&buf, "ucl", sampleAssignments()); err != nil {
		t.Fatalf("WriteRankingCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header plus 4 picks, got %d records", len(records))
	}
	if records[0][0] != "position" || records[0][8] != "note" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	first := records[1]
	if first[1] != "Daniela" || first[3] != "Real Madrid" || first[7] != "22" {
		t.Fatalf("unexpected first record: %v", first)
	}
	last := records[4]
	if last[3] != "Unknown FC" || last[4] != "" || last[8] != "not found: Unknown FC" {
		t.Fatalf("unexpected unresolved record: %v", last)
	}
}

package standings

import (
	"context"
	"sort"
	"strings"

	"github.com/pollahq/polla-champions/internal/match"
)

// Row is one team entry of a competition table, named exactly as the
// official source publishes it.
type Row struct {
	CanonicalName  string
	Points         int
	GoalDifference int
	GoalsFor       int
	Played         int
	Won            int
	Draw           int
	Lost           int
}

// Table is an ordered competition table. It is rebuilt wholesale on every
// refresh and never mutated in place.
type Table struct {
	CompetitionID string
	Rows          []Row
}

// NewTable sorts rows by points descending with goal difference and goals
// scored as descending tie-breakers, dropping rows with an empty name or
// negative points. Duplicate canonical names keep the first occurrence.
func NewTable(competitionID string, rows []Row) Table {
	out := make([]Row, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		row.CanonicalName = strings.TrimSpace(row.CanonicalName)
		if row.CanonicalName == "" || row.Points < 0 {
			continue
		}
		key := match.Normalize(row.CanonicalName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		return out[i].GoalsFor > out[j].GoalsFor
	})

	return Table{CompetitionID: competitionID, Rows: out}
}

// TeamNames returns the canonical names in table order.
func (t Table) TeamNames() []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row.CanonicalName)
	}
	return out
}

// PointsByName builds a lookup keyed by normalized canonical name.
func (t Table) PointsByName() map[string]int {
	out := make(map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		key := match.Normalize(row.CanonicalName)
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = row.Points
	}
	return out
}

// Source fetches the current table for a competition from an external
// provider. Implementations surface network, HTTP and parse failures as a
// single unavailable condition; callers decide between fallback and abort.
type Source interface {
	FetchStandings(ctx context.Context, competitionID string) (Table, error)
}

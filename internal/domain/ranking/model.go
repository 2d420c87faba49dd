package ranking

import (
	"context"
	"time"
)

// TeamResult is one resolved team pick inside an assignment.
type TeamResult struct {
	InputLabel   string
	ResolvedName string
	Score        int
	Points       int
	Note         string
}

// Assignment is a participant's derived pool result. Recomputed on every
// refresh; TotalPoints always equals the sum of the per-team points.
type Assignment struct {
	ParticipantID string
	PerTeam       []TeamResult
	TotalPoints   int
}

// Snapshot is a persisted ranking at a point in time.
type Snapshot struct {
	ID            string
	CompetitionID string
	SourceLabel   string
	Assignments   []Assignment
	CreatedAt     time.Time
}

type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot Snapshot) error
	ListByCompetition(ctx context.Context, competitionID string, limit int) ([]Snapshot, error)
}

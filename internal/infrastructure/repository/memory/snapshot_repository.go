package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pollahq/polla-champions/internal/domain/ranking"
)

// SnapshotRepository keeps ranking snapshots in process memory. Used when no
// database is configured; history survives only for the process lifetime.
type SnapshotRepository struct {
	mu            sync.RWMutex
	byCompetition map[string][]ranking.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{byCompetition: make(map[string][]ranking.Snapshot)}
}

func (r *SnapshotRepository) Insert(_ context.Context, snapshot ranking.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byCompetition[snapshot.CompetitionID] = append(r.byCompetition[snapshot.CompetitionID], snapshot)
	return nil
}

func (r *SnapshotRepository) ListByCompetition(_ context.Context, competitionID string, limit int) ([]ranking.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byCompetition[competitionID]
	out := make([]ranking.Snapshot, 0, len(items))
	out = append(out, items...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

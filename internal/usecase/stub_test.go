package usecase

import (
	"context"
	"sync"

	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/domain/standings"
)

type stubSource struct {
	mu      sync.Mutex
	tables  map[string]standings.Table
	err     error
	fetches int
}

func (s *stubSource) FetchStandings(_ context.Context, competitionID string) (standings.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetches++
	if s.err != nil {
		return standings.Table{}, s.err
	}
	return s.tables[competitionID], nil
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type stubParticipantRepo struct {
	byCompetition map[string][]participant.Participant
	err           error
}

func (r *stubParticipantRepo) ListByCompetition(_ context.Context, competitionID string) ([]participant.Participant, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byCompetition[competitionID], nil
}

type stubSnapshotRepo struct {
	mu        sync.Mutex
	inserted  []ranking.Snapshot
	insertErr error
}

func (r *stubSnapshotRepo) Insert(_ context.Context, snapshot ranking.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, snapshot)
	return nil
}

func (r *stubSnapshotRepo) ListByCompetition(_ context.Context, competitionID string, limit int) ([]ranking.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ranking.Snapshot, 0, len(r.inserted))
	for _, snapshot := range r.inserted {
		if snapshot.CompetitionID == competitionID {
			out = append(out, snapshot)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func poolTable(competitionID string) standings.Table {
	return standings.NewTable(competitionID, []standings.Row{
		{CanonicalName: "Manchester City", Points: 13},
		{CanonicalName: "Real Madrid", Points: 12},
		{CanonicalName: "Liverpool", Points: 10},
		{CanonicalName: "FC Internazionale Milano", Points: 9},
		{CanonicalName: "Borussia Dortmund", Points: 8},
	})
}

func poolMember(id, competitionID, first, second string) participant.Participant {
	return participant.Participant{
		ID:            id,
		CompetitionID: competitionID,
		TeamLabels:    [participant.TeamPickCount]string{first, second},
	}
}

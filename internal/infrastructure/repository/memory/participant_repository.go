package memory

import (
	"context"
	"sync"

	"github.com/pollahq/polla-champions/internal/domain/participant"
)

type ParticipantRepository struct {
	mu            sync.RWMutex
	byCompetition map[string][]participant.Participant
}

func NewParticipantRepository(participants []participant.Participant) *ParticipantRepository {
	byCompetition := make(map[string][]participant.Participant)
	for _, item := range participants {
		byCompetition[item.CompetitionID] = append(byCompetition[item.CompetitionID], item)
	}

	return &ParticipantRepository{byCompetition: byCompetition}
}

func (r *ParticipantRepository) ListByCompetition(_ context.Context, competitionID string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byCompetition[competitionID]
	out := make([]participant.Participant, 0, len(items))
	out = append(out, items...)

	return out, nil
}

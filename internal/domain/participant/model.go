package participant

import "context"

// TeamPickCount is the fixed number of teams each participant owns.
const TeamPickCount = 2

// Participant is one pool member with their fixed team picks. The ID doubles
// as the display name and must be unique within a competition.
type Participant struct {
	ID            string
	CompetitionID string
	TeamLabels    [TeamPickCount]string
}

type Repository interface {
	ListByCompetition(ctx context.Context, competitionID string) ([]Participant, error)
}

package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/pollahq/polla-champions/internal/domain/participant"
)

type participantsFile struct {
	Participants []participantEntry `json:"participants" validate:"required,min=1,dive"`
}

type participantEntry struct {
	ID            string   `json:"id" validate:"required"`
	CompetitionID string   `json:"competition_id" validate:"required"`
	Teams         []string `json:"teams" validate:"required,len=2,dive,required"`
}

// LoadParticipants reads a pool roster from a JSON file. Every entry must
// name exactly two teams.
func LoadParticipants(path string) ([]participant.Participant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read participants file: %w", err)
	}

	var doc participantsFile
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode participants file %s: %w", path, err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("validate participants file %s: %w", path, err)
	}

	out := make([]participant.Participant, 0, len(doc.Participants))
	seen := make(map[string]struct{}, len(doc.Participants))
	for _, entry := range doc.Participants {
		key := entry.CompetitionID + "/" + entry.ID
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate participant %q in competition %q", entry.ID, entry.CompetitionID)
		}
		seen[key] = struct{}{}

		p := participant.Participant{
			ID:            entry.ID,
			CompetitionID: entry.CompetitionID,
		}
		copy(p.TeamLabels[:], entry.Teams)
		out = append(out, p)
	}
	return out, nil
}

package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pollahq/polla-champions/internal/domain/ranking"
)

type snapshotTableModel struct {
	ID            string    `db:"id"`
	CompetitionID string    `db:"competition_id"`
	SourceLabel   string    `db:"source_label"`
	Assignments   []byte    `db:"assignments"`
	CreatedAt     time.Time `db:"created_at"`
}

type assignmentDocument struct {
	ParticipantID string             `json:"participant_id"`
	PerTeam       []teamResultRecord `json:"per_team"`
	TotalPoints   int                `json:"total_points"`
}

type teamResultRecord struct {
	InputLabel   string `json:"input_label"`
	ResolvedName string `json:"resolved_name,omitempty"`
	Score        int    `json:"score"`
	Points       int    `json:"points"`
	Note         string `json:"note,omitempty"`
}

func toSnapshotModel(snapshot ranking.Snapshot) (snapshotTableModel, error) {
	docs := make([]assignmentDocument, 0, len(snapshot.Assignments))
	for _, assignment := range snapshot.Assignments {
		doc := assignmentDocument{
			ParticipantID: assignment.ParticipantID,
			PerTeam:       make([]teamResultRecord, 0, len(assignment.PerTeam)),
			TotalPoints:   assignment.TotalPoints,
		}
		for _, detail := range assignment.PerTeam {
			doc.PerTeam = append(doc.PerTeam, teamResultRecord(detail))
		}
		docs = append(docs, doc)
	}

	raw, err := sonic.Marshal(docs)
	if err != nil {
		return snapshotTableModel{}, fmt.Errorf("encode assignments: %w", err)
	}

	return snapshotTableModel{
		ID:            snapshot.ID,
		CompetitionID: snapshot.CompetitionID,
		SourceLabel:   snapshot.SourceLabel,
		Assignments:   raw,
		CreatedAt:     snapshot.CreatedAt,
	}, nil
}

func (m snapshotTableModel) toDomain() (ranking.Snapshot, error) {
	var docs []assignmentDocument
	if len(m.Assignments) > 0 {
		if err := sonic.Unmarshal(m.Assignments, &docs); err != nil {
			return ranking.Snapshot{}, fmt.Errorf("decode assignments: %w", err)
		}
	}

	assignments := make([]ranking.Assignment, 0, len(docs))
	for _, doc := range docs {
		assignment := ranking.Assignment{
			ParticipantID: doc.ParticipantID,
			PerTeam:       make([]ranking.TeamResult, 0, len(doc.PerTeam)),
			TotalPoints:   doc.TotalPoints,
		}
		for _, record := range doc.PerTeam {
			assignment.PerTeam = append(assignment.PerTeam, ranking.TeamResult(record))
		}
		assignments = append(assignments, assignment)
	}

	return ranking.Snapshot{
		ID:            m.ID,
		CompetitionID: m.CompetitionID,
		SourceLabel:   m.SourceLabel,
		Assignments:   assignments,
		CreatedAt:     m.CreatedAt,
	}, nil
}

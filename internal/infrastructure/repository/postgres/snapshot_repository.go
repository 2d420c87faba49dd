package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Insert(ctx context.Context, snapshot ranking.Snapshot) error {
	model, err := toSnapshotModel(snapshot)
	if err != nil {
		return err
	}

	query, args, err := querybuilder.
		InsertInto("ranking_snapshots").
		Set("id", model.ID).
		Set("competition_id", model.CompetitionID).
		Set("source_label", model.SourceLabel).
		Set("assignments", model.Assignments).
		Set("created_at", model.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build ranking snapshot insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ranking snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) ListByCompetition(ctx context.Context, competitionID string, limit int) ([]ranking.Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	query, args, err := querybuilder.
		Select("id", "competition_id", "source_label", "assignments", "created_at").
		From("ranking_snapshots").
		Where(querybuilder.Eq("competition_id", competitionID)).
		OrderBy("created_at DESC", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build ranking snapshot query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ranking snapshots: %w", err)
	}

	out := make([]ranking.Snapshot, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

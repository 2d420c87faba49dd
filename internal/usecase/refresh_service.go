package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/platform/id"
	"github.com/pollahq/polla-champions/internal/platform/logging"
)

const (
	refreshStatusSuccess  = "success"
	refreshStatusDegraded = "degraded"
	refreshStatusFailed   = "failed"

	defaultRefreshWorkers = 4
)

type RefreshInput struct {
	CompetitionIDs []string
	MaxWorkers     int
	WriteSnapshot  bool
}

type RefreshTaskResult struct {
	CompetitionID string
	Status        string
	Message       string
	TeamCount     int
	SnapshotID    string
	DurationMs    int64
}

type RefreshResult struct {
	CompetitionCount int
	WorkerCount      int
	SuccessCount     int
	DegradedCount    int
	FailedCount      int
	Tasks            []RefreshTaskResult
}

// RefreshService refetches competition tables and, optionally, persists a
// ranking snapshot per competition. Competitions refresh concurrently
// through a bounded worker pool; results are reported per task.
type RefreshService struct {
	source          standings.Source
	standingsSvc    *StandingsService
	rankingSvc      *RankingService
	participantRepo participant.Repository
	snapshotRepo    ranking.SnapshotRepository
	idGen           id.Generator
	fallbackEnabled bool
	logger          *logging.Logger
	now             func() time.Time
}

func NewRefreshService(
	source standings.Source,
	standingsSvc *StandingsService,
	rankingSvc *RankingService,
	participantRepo participant.Repository,
	snapshotRepo ranking.SnapshotRepository,
	idGen id.Generator,
	fallbackEnabled bool,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}

	return &RefreshService{
		source:          source,
		standingsSvc:    standingsSvc,
		rankingSvc:      rankingSvc,
		participantRepo: participantRepo,
		snapshotRepo:    snapshotRepo,
		idGen:           idGen,
		fallbackEnabled: fallbackEnabled,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *RefreshService) RefreshAll(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	competitionIDs := input.CompetitionIDs
	if len(competitionIDs) == 0 {
		competitionIDs = s.standingsSvc.ListCompetitions(ctx)
	}
	targets := make([]string, 0, len(competitionIDs))
	for _, competitionID := range competitionIDs {
		if trimmed := strings.TrimSpace(competitionID); trimmed != "" {
			targets = append(targets, trimmed)
		}
	}
	if len(targets) == 0 {
		return RefreshResult{}, fmt.Errorf("%w: no competitions to refresh", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRefreshWorkers
	}
	if workerCount > len(targets) {
		workerCount = len(targets)
	}

	result := RefreshResult{
		CompetitionCount: len(targets),
		WorkerCount:      workerCount,
		Tasks:            make([]RefreshTaskResult, 0, len(targets)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RefreshTaskResult, len(targets))

	var successCount atomic.Int32
	var degradedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, competitionID := range targets {
		competitionID := competitionID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := s.now()
			row := s.refreshCompetition(ctx, competitionID, input.WriteSnapshot)
			row.DurationMs = s.now().Sub(start).Milliseconds()

			switch row.Status {
			case refreshStatusSuccess:
				successCount.Add(1)
			case refreshStatusDegraded:
				degradedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].CompetitionID < result.Tasks[j].CompetitionID
	})

	result.SuccessCount = int(successCount.Load())
	result.DegradedCount = int(degradedCount.Load())
	result.FailedCount = int(failedCount.Load())

	return result, nil
}

func (s *RefreshService) refreshCompetition(ctx context.Context, competitionID string, writeSnapshot bool) RefreshTaskResult {
	row := RefreshTaskResult{CompetitionID: competitionID}

	sourceLabel := "live"
	table, err := s.source.FetchStandings(ctx, competitionID)
	switch {
	case err == nil:
		s.standingsSvc.Prime(ctx, table)
		row.Status = refreshStatusSuccess
	case s.fallbackEnabled && errors.Is(err, ErrSourceUnavailable):
		s.logger.WarnContext(ctx, "refresh degraded to example table",
			"competition_id", competitionID,
			"error", err,
		)
		table = standings.ExampleTable(competitionID)
		sourceLabel = "example"
		row.Status = refreshStatusDegraded
		row.Message = err.Error()
	default:
		row.Status = refreshStatusFailed
		row.Message = err.Error()
		return row
	}

	row.TeamCount = len(table.Rows)

	if !writeSnapshot || s.snapshotRepo == nil {
		return row
	}

	snapshotID, err := s.writeSnapshot(ctx, competitionID, sourceLabel, table)
	if err != nil {
		s.logger.ErrorContext(ctx, "write ranking snapshot failed",
			"competition_id", competitionID,
			"error", err,
		)
		row.Status = refreshStatusFailed
		row.Message = err.Error()
		return row
	}
	row.SnapshotID = snapshotID

	return row
}

func (s *RefreshService) writeSnapshot(ctx context.Context, competitionID, sourceLabel string, table standings.Table) (string, error) {
	participants, err := s.participantRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return "", fmt.Errorf("list participants: %w", err)
	}
	if len(participants) == 0 {
		return "", fmt.Errorf("%w: no participants configured for competition=%s", ErrConfigurationMissing, competitionID)
	}

	snapshotID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate snapshot id: %w", err)
	}

	snapshot := ranking.Snapshot{
		ID:            snapshotID,
		CompetitionID: competitionID,
		SourceLabel:   sourceLabel,
		Assignments:   s.rankingSvc.Aggregate(table, participants),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.snapshotRepo.Insert(ctx, snapshot); err != nil {
		return "", fmt.Errorf("insert ranking snapshot: %w", err)
	}

	return snapshotID, nil
}

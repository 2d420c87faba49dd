package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/match"
	"github.com/pollahq/polla-champions/internal/platform/logging"
)

// RankingService turns a standings table plus the participant pool into the
// ordered pool ranking. Resolution failures for single teams never abort an
// aggregation; they become zero-point entries with a correction note.
type RankingService struct {
	standingsSvc    *StandingsService
	participantRepo participant.Repository
	snapshotRepo    ranking.SnapshotRepository
	resolver        *match.Resolver
	logger          *logging.Logger
}

func NewRankingService(
	standingsSvc *StandingsService,
	participantRepo participant.Repository,
	snapshotRepo ranking.SnapshotRepository,
	resolver *match.Resolver,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if resolver == nil {
		resolver = match.NewResolver(nil, nil, 0)
	}

	return &RankingService{
		standingsSvc:    standingsSvc,
		participantRepo: participantRepo,
		snapshotRepo:    snapshotRepo,
		resolver:        resolver,
		logger:          logger,
	}
}

// Aggregate is a pure function of the table, the participants and the
// resolver held by the service. Output order is total points descending,
// ties broken by participant id ascending.
func (s *RankingService) Aggregate(table standings.Table, participants []participant.Participant) []ranking.Assignment {
	candidates := table.TeamNames()
	pointsByName := table.PointsByName()

	out := make([]ranking.Assignment, 0, len(participants))
	for _, member := range participants {
		assignment := ranking.Assignment{
			ParticipantID: member.ID,
			PerTeam:       make([]ranking.TeamResult, 0, participant.TeamPickCount),
		}

		for _, label := range member.TeamLabels {
			detail := s.resolveTeam(label, candidates, pointsByName)
			assignment.TotalPoints += detail.Points
			assignment.PerTeam = append(assignment.PerTeam, detail)
		}

		out = append(out, assignment)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})

	return out
}

func (s *RankingService) resolveTeam(label string, candidates []string, pointsByName map[string]int) ranking.TeamResult {
	detail := ranking.TeamResult{InputLabel: label}

	resolved := s.resolver.Resolve(label, candidates)
	if !resolved.Resolved {
		detail.Note = fmt.Sprintf("not found: %s", label)
		return detail
	}

	detail.ResolvedName = resolved.Candidate
	detail.Score = resolved.Score
	detail.Points = pointsByName[match.Normalize(resolved.Candidate)]
	if resolved.Score < 100 {
		detail.Note = fmt.Sprintf("%s -> %s (%d%%)", label, resolved.Candidate, resolved.Score)
	}

	return detail
}

// GetRanking fetches the current table (falling back to the bundled example
// when the source is unavailable) and aggregates the pool for a competition.
func (s *RankingService) GetRanking(ctx context.Context, competitionID string) ([]ranking.Assignment, standings.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetRanking")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, standings.Table{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	participants, err := s.participantRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, standings.Table{}, fmt.Errorf("list participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, standings.Table{}, fmt.Errorf("%w: no participants configured for competition=%s", ErrConfigurationMissing, competitionID)
	}

	table, err := s.standingsSvc.GetTable(ctx, competitionID)
	if err != nil {
		return nil, standings.Table{}, err
	}

	return s.Aggregate(table, participants), table, nil
}

// History lists recent persisted snapshots, newest first.
func (s *RankingService) History(ctx context.Context, competitionID string, limit int) ([]ranking.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.History")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	items, err := s.snapshotRepo.ListByCompetition(ctx, competitionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ranking snapshots: %w", err)
	}

	return items, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/platform/cache"
	"github.com/pollahq/polla-champions/internal/platform/logging"
)

// StandingsService serves competition tables, caching fetched results and
// degrading to the bundled example table when the source fails.
type StandingsService struct {
	source          standings.Source
	store           *cache.Store
	competitionIDs  []string
	fallbackEnabled bool
	logger          *logging.Logger
}

func NewStandingsService(
	source standings.Source,
	store *cache.Store,
	competitionIDs []string,
	fallbackEnabled bool,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	ids := make([]string, 0, len(competitionIDs))
	for _, id := range competitionIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	sort.Strings(ids)

	return &StandingsService{
		source:          source,
		store:           store,
		competitionIDs:  ids,
		fallbackEnabled: fallbackEnabled,
		logger:          logger,
	}
}

func (s *StandingsService) ListCompetitions(ctx context.Context) []string {
	_, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListCompetitions")
	defer span.End()

	out := make([]string, len(s.competitionIDs))
	copy(out, s.competitionIDs)
	return out
}

func (s *StandingsService) knownCompetition(competitionID string) bool {
	for _, id := range s.competitionIDs {
		if id == competitionID {
			return true
		}
	}
	return false
}

// GetTable returns the cached table for a competition, fetching on miss.
// A failed fetch falls back to the example table when fallback is enabled;
// the degraded table is served but never cached.
func (s *StandingsService) GetTable(ctx context.Context, competitionID string) (standings.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetTable")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return standings.Table{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if !s.knownCompetition(competitionID) {
		return standings.Table{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	value, err := s.load(ctx, competitionID)
	if err != nil {
		if !s.fallbackEnabled || !errors.Is(err, ErrSourceUnavailable) {
			return standings.Table{}, err
		}
		s.logger.WarnContext(ctx, "standings source unavailable, serving example table",
			"competition_id", competitionID,
			"error", err,
		)
		return standings.ExampleTable(competitionID), nil
	}

	table, ok := value.(standings.Table)
	if !ok {
		return standings.Table{}, fmt.Errorf("unexpected cached value type %T", value)
	}

	return table, nil
}

// load goes through the cache when one is configured, otherwise straight to
// the source.
func (s *StandingsService) load(ctx context.Context, competitionID string) (any, error) {
	loader := func(ctx context.Context) (any, error) {
		table, fetchErr := s.source.FetchStandings(ctx, competitionID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return table, nil
	}

	if s.store == nil {
		return loader(ctx)
	}
	return s.store.GetOrLoad(ctx, standingsCacheKey(competitionID), loader)
}

// Prime stores a freshly fetched table so subsequent reads are cache hits.
func (s *StandingsService) Prime(ctx context.Context, table standings.Table) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Prime")
	defer span.End()

	if s.store == nil || strings.TrimSpace(table.CompetitionID) == "" {
		return
	}
	s.store.Set(ctx, standingsCacheKey(table.CompetitionID), table)
}

// Invalidate drops the cached table so the next read refetches.
func (s *StandingsService) Invalidate(ctx context.Context, competitionID string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Invalidate")
	defer span.End()

	if s.store == nil {
		return
	}
	s.store.Delete(ctx, standingsCacheKey(strings.TrimSpace(competitionID)))
}

func standingsCacheKey(competitionID string) string {
	return "standings:" + competitionID
}

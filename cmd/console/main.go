// Command console runs the pool once and prints the result: it fetches the
// standings, resolves every participant's picks and renders the ranking,
// optionally writing it to a CSV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/pollahq/polla-champions/external/uefa"
	"github.com/pollahq/polla-champions/internal/config"
	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/infrastructure/repository/memory"
	"github.com/pollahq/polla-champions/internal/interfaces/console"
	"github.com/pollahq/polla-champions/internal/match"
	"github.com/pollahq/polla-champions/internal/platform/logging"
	"github.com/pollahq/polla-champions/internal/platform/resilience"
	"github.com/pollahq/polla-champions/internal/usecase"
)

func main() {
	competitionFlag := flag.String("competition", "", "competition id to rank (defaults to DEFAULT_COMPETITION_ID)")
	csvPath := flag.String("csv", "", "write the ranking to this CSV file")
	showStandings := flag.Bool("standings", true, "print the fetched standings table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(logging.LevelWarn)
	defer func() { _ = logger.Sync() }()

	competitionID := *competitionFlag
	if competitionID == "" {
		competitionID = cfg.DefaultCompetitionID
	}

	if err := run(cfg, logger, competitionID, *csvPath, *showStandings); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger, competitionID, csvPath string, showStandings bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.UEFATimeout*2)
	defer cancel()

	table, err := fetchTable(ctx, cfg, logger, competitionID)
	if err != nil {
		return err
	}

	participants, err := loadPool(cfg, competitionID)
	if err != nil {
		return err
	}

	rankingSvc := usecase.NewRankingService(nil, nil, nil, buildResolver(cfg), logger)
	assignments := rankingSvc.Aggregate(table, participants)

	if showStandings {
		if err := console.RenderStandings(os.Stdout, table); err != nil {
			return err
		}
		fmt.Println()
	}
	if err := console.RenderRanking(os.Stdout, competitionID, assignments); err != nil {
		return err
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}
		defer f.Close()
		if err := console.WriteRankingCSV(f, competitionID, assignments); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(os.Stderr, "ranking written to %s\n", csvPath)
	}

	return nil
}

func fetchTable(ctx context.Context, cfg config.Config, logger *logging.Logger, competitionID string) (standings.Table, error) {
	source := uefa.NewClient(uefa.ClientConfig{
		HTTPClient:       &http.Client{Timeout: cfg.UEFATimeout},
		StandingsURLByID: cfg.UEFAStandingsURLByID,
		Timeout:          cfg.UEFATimeout,
		MaxRetries:       cfg.UEFAMaxRetries,
		Logger:           logger,
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	})

	table, err := source.FetchStandings(ctx, competitionID)
	if errors.Is(err, usecase.ErrSourceUnavailable) && cfg.FallbackTableEnabled {
		fmt.Fprintf(os.Stderr, "standings source unavailable, using the bundled table: %v\n", err)
		return standings.ExampleTable(competitionID), nil
	}
	if err != nil {
		return standings.Table{}, fmt.Errorf("fetch standings: %w", err)
	}
	return table, nil
}

func loadPool(cfg config.Config, competitionID string) ([]participant.Participant, error) {
	participants := memory.SeedParticipants()
	if cfg.ParticipantsFile != "" {
		loaded, err := config.LoadParticipants(cfg.ParticipantsFile)
		if err != nil {
			return nil, err
		}
		participants = loaded
	}

	matching := make([]participant.Participant, 0, len(participants))
	for _, p := range participants {
		if p.CompetitionID == competitionID {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		return nil, fmt.Errorf("no participants configured for competition %q", competitionID)
	}
	return matching, nil
}

func buildResolver(cfg config.Config) *match.Resolver {
	var scorer match.SimilarityScorer
	switch cfg.MatchScorer {
	case config.ScorerSubstring:
		scorer = match.NewSubstringScorer()
	default:
		scorer = match.NewLevenshteinScorer()
	}

	aliases := memory.SeedAliases()
	for alias, canonicals := range cfg.TeamAliases {
		aliases[alias] = append(aliases[alias], canonicals...)
	}

	return match.NewResolver(scorer, aliases, cfg.MatchThreshold)
}

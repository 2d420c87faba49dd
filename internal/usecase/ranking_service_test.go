package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/match"
	"github.com/pollahq/polla-champions/internal/platform/cache"
)

func TestAggregate_TwoResolvedTeamsSumPoints(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Daniela", "ucl", "Real Madrid", "Liverpool"),
	})

	if len(got) != 1 {
		t.Fatalf("unexpected assignments %+v", got)
	}
	if got[0].TotalPoints != 22 {
		t.Fatalf("Real Madrid (12) + Liverpool (10) must total 22, got %d", got[0].TotalPoints)
	}
	for _, team := range got[0].PerTeam {
		if team.Score != 100 || team.Note != "" {
			t.Fatalf("exact picks must score 100 without notes, got %+v", team)
		}
	}
}

func TestAggregate_AliasResolvesWithFullScore(t *testing.T) {
	t.Parallel()

	aliases := map[string][]string{"Inter": {"FC Internazionale Milano"}}
	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), aliases, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Marco", "ucl", "Inter", "Liverpool"),
	})

	inter := got[0].PerTeam[0]
	if inter.ResolvedName != "FC Internazionale Milano" || inter.Score != 100 {
		t.Fatalf("alias must resolve at full score, got %+v", inter)
	}
	if inter.Points != 9 {
		t.Fatalf("unexpected points %d", inter.Points)
	}
	if got[0].TotalPoints != 19 {
		t.Fatalf("unexpected total %d", got[0].TotalPoints)
	}
}

func TestAggregate_UnresolvedTeamScoresZeroWithNote(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Renzo", "ucl", "Unknown FC", "Liverpool"),
	})

	unknown := got[0].PerTeam[0]
	if unknown.ResolvedName != "" || unknown.Points != 0 {
		t.Fatalf("unresolved pick must contribute nothing, got %+v", unknown)
	}
	if unknown.Note != "not found: Unknown FC" {
		t.Fatalf("unexpected note %q", unknown.Note)
	}
	if got[0].TotalPoints != 10 {
		t.Fatalf("total must only count the resolved pick, got %d", got[0].TotalPoints)
	}
}

func TestAggregate_FuzzyMatchNotesCorrection(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Lucia", "ucl", "Real Madird", "Liverpool"),
	})

	fuzzy := got[0].PerTeam[0]
	if fuzzy.ResolvedName != "Real Madrid" {
		t.Fatalf("unexpected resolution %+v", fuzzy)
	}
	if fuzzy.Score >= 100 || fuzzy.Score < 72 {
		t.Fatalf("fuzzy score out of range: %d", fuzzy.Score)
	}
	if fuzzy.Note == "" {
		t.Fatalf("fuzzy match must carry a correction note")
	}
	if fuzzy.Points != 12 {
		t.Fatalf("fuzzy match must still award table points, got %d", fuzzy.Points)
	}
}

func TestAggregate_SortsByTotalDescendingThenID(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Zoe", "ucl", "Real Madrid", "Liverpool"),
		poolMember("Ana", "ucl", "Liverpool", "Real Madrid"),
		poolMember("Bruno", "ucl", "Manchester City", "Real Madrid"),
	})

	wantOrder := []string{"Bruno", "Ana", "Zoe"}
	for i, want := range wantOrder {
		if got[i].ParticipantID != want {
			t.Fatalf("position %d: got %q, want %q (%+v)", i+1, got[i].ParticipantID, want, got)
		}
	}
	if got[1].TotalPoints != got[2].TotalPoints {
		t.Fatalf("tie expected between Ana and Zoe: %+v", got)
	}
}

func TestAggregate_TotalEqualsSumOfPerTeamPoints(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	got := svc.Aggregate(poolTable("ucl"), []participant.Participant{
		poolMember("Daniela", "ucl", "Real Madrid", "Nowhere FC"),
		poolMember("Marco", "ucl", "Borussia Dortmund", "Manchester City"),
	})

	for _, assignment := range got {
		sum := 0
		for _, team := range assignment.PerTeam {
			sum += team.Points
		}
		if sum != assignment.TotalPoints {
			t.Fatalf("total %d does not match per-team sum %d for %q", assignment.TotalPoints, sum, assignment.ParticipantID)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, nil, nil, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	participants := []participant.Participant{
		poolMember("Daniela", "ucl", "Real Madrid", "Liverpool"),
		poolMember("Marco", "ucl", "Manchester City", "Unknown FC"),
	}

	first := svc.Aggregate(poolTable("ucl"), participants)
	second := svc.Aggregate(poolTable("ucl"), participants)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation must be deterministic:\n%+v\n%+v", first, second)
	}
}

func TestGetRanking_RequiresCompetitionID(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, &stubParticipantRepo{}, &stubSnapshotRepo{}, nil, nil)

	_, _, err := svc.GetRanking(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetRanking_NoParticipantsIsConfigurationMissing(t *testing.T) {
	t.Parallel()

	src := &stubSource{tables: map[string]standings.Table{"ucl": poolTable("ucl")}}
	standingsSvc := NewStandingsService(src, cache.NewStore(time.Minute), []string{"ucl"}, true, nil)
	svc := NewRankingService(standingsSvc, &stubParticipantRepo{}, &stubSnapshotRepo{}, nil, nil)

	_, _, err := svc.GetRanking(context.Background(), "ucl")
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestGetRanking_AggregatesCurrentTable(t *testing.T) {
	t.Parallel()

	src := &stubSource{tables: map[string]standings.Table{"ucl": poolTable("ucl")}}
	standingsSvc := NewStandingsService(src, cache.NewStore(time.Minute), []string{"ucl"}, true, nil)
	participants := &stubParticipantRepo{byCompetition: map[string][]participant.Participant{
		"ucl": {
			poolMember("Daniela", "ucl", "Real Madrid", "Liverpool"),
			poolMember("Marco", "ucl", "Borussia Dortmund", "Unknown FC"),
		},
	}}
	svc := NewRankingService(standingsSvc, participants, &stubSnapshotRepo{}, match.NewResolver(match.NewLevenshteinScorer(), nil, 72), nil)

	assignments, table, err := svc.GetRanking(context.Background(), "ucl")
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if table.CompetitionID != "ucl" {
		t.Fatalf("unexpected table %+v", table)
	}
	if len(assignments) != 2 {
		t.Fatalf("unexpected assignments %+v", assignments)
	}
	if assignments[0].ParticipantID != "Daniela" || assignments[0].TotalPoints != 22 {
		t.Fatalf("unexpected leader %+v", assignments[0])
	}
}

func TestHistory_Validation(t *testing.T) {
	t.Parallel()

	svc := NewRankingService(nil, &stubParticipantRepo{}, &stubSnapshotRepo{}, nil, nil)

	if _, err := svc.History(context.Background(), "ucl", 0); err != nil {
		t.Fatalf("history with default limit: %v", err)
	}
	if _, err := svc.History(context.Background(), " ", 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

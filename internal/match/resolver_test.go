package match

import "testing"

var championsCandidates = []string{
	"Manchester City",
	"Bayern München",
	"FC Internazionale Milano",
	"Real Madrid",
	"Liverpool",
	"Paris Saint-Germain",
	"Borussia Dortmund",
}

func TestResolve_ExactMatchScoresHundred(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 72)

	got := r.Resolve("Real Madrid", championsCandidates)
	if !got.Resolved {
		t.Fatalf("expected resolution, got %+v", got)
	}
	if got.Candidate != "Real Madrid" || got.Score != 100 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestResolve_ExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 72)

	for _, query := range []string{"real madrid", "REAL MADRID", " Real-Madrid. "} {
		got := r.Resolve(query, championsCandidates)
		if got.Candidate != "Real Madrid" || got.Score != 100 {
			t.Fatalf("query %q: unexpected result %+v", query, got)
		}
	}
}

func TestResolve_AliasExpandsProbeSet(t *testing.T) {
	t.Parallel()

	aliases := map[string][]string{
		"Inter": {"FC Internazionale Milano"},
		"PSG":   {"Paris Saint-Germain"},
	}
	r := NewResolver(NewLevenshteinScorer(), aliases, 72)

	got := r.Resolve("Inter", championsCandidates)
	if got.Candidate != "FC Internazionale Milano" || got.Score != 100 {
		t.Fatalf("unexpected result %+v", got)
	}

	got = r.Resolve("PSG", championsCandidates)
	if got.Candidate != "Paris Saint-Germain" || got.Score != 100 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestResolve_BelowThresholdReturnsUnresolved(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 72)

	got := r.Resolve("Unknown FC", championsCandidates)
	if got.Resolved {
		t.Fatalf("expected no resolution, got %+v", got)
	}
	if got.Candidate != "" || got.Score != 0 {
		t.Fatalf("unresolved result must be zero valued, got %+v", got)
	}
}

func TestResolve_ScoreEqualToThresholdPasses(t *testing.T) {
	t.Parallel()

	// "liverpoo" vs "liverpool": one deletion over nine runes scores 88.
	r := NewResolver(NewLevenshteinScorer(), nil, 88)

	got := r.Resolve("Liverpoo", championsCandidates)
	if !got.Resolved || got.Candidate != "Liverpool" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Score != 88 {
		t.Fatalf("unexpected score %d", got.Score)
	}
}

func TestResolve_TieBreaksByEarliestCandidate(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewSubstringScorer(), nil, 50)

	// Both candidates contain the probe; the first in table order wins.
	got := r.Resolve("United", []string{"Manchester United", "Newcastle United"})
	if got.Candidate != "Manchester United" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestResolve_DuplicateNormalizedCandidatesCountOnce(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 72)

	got := r.Resolve("real madrid", []string{"Real Madrid", "REAL MADRID"})
	if got.Candidate != "Real Madrid" || got.Score != 100 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 72)

	if got := r.Resolve("   ", championsCandidates); got.Resolved {
		t.Fatalf("blank query must not resolve, got %+v", got)
	}
	if got := r.Resolve("Real Madrid", nil); got.Resolved {
		t.Fatalf("empty candidate set must not resolve, got %+v", got)
	}
}

func TestResolve_DeterministicAcrossCalls(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLevenshteinScorer(), nil, 60)

	first := r.Resolve("Borusia Dortmund", championsCandidates)
	for i := 0; i < 10; i++ {
		if got := r.Resolve("Borusia Dortmund", championsCandidates); got != first {
			t.Fatalf("resolution changed between calls: %+v vs %+v", first, got)
		}
	}
}

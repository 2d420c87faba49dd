package match

import "strings"

// Result is the outcome of resolving one user-typed label against the
// canonical candidate set.
type Result struct {
	Candidate string
	Score     int
	Resolved  bool
}

// Resolver finds the best canonical candidate for a user-typed team label.
// Aliases expand the probe set before scoring; threshold is the minimum
// acceptable score on the 0-100 scale.
type Resolver struct {
	scorer    SimilarityScorer
	aliases   map[string][]string
	threshold int
}

func NewResolver(scorer SimilarityScorer, aliases map[string][]string, threshold int) *Resolver {
	if scorer == nil {
		scorer = NewLevenshteinScorer()
	}
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}

	normalized := make(map[string][]string, len(aliases))
	for key, values := range aliases {
		probe := strings.TrimSpace(key)
		if probe == "" {
			continue
		}
		out := make([]string, 0, len(values))
		for _, value := range values {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		normalized[Normalize(probe)] = out
	}

	return &Resolver{
		scorer:    scorer,
		aliases:   normalized,
		threshold: threshold,
	}
}

// Resolve scores every (probe, candidate) pair and returns the candidate
// with the maximum score, provided it reaches the threshold. An exact
// normalized match always scores 100. Ties between equal best scores are
// broken by earliest candidate position, so the resolution is deterministic
// for a fixed candidate order.
func (r *Resolver) Resolve(query string, candidates []string) Result {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 {
		return Result{}
	}

	probes := r.probeSet(query)
	best := Result{}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		normCandidate := Normalize(candidate)
		if normCandidate == "" {
			continue
		}
		// Same normalized form must not double-count; first occurrence wins.
		if _, dup := seen[normCandidate]; dup {
			continue
		}
		seen[normCandidate] = struct{}{}

		for _, probe := range probes {
			score := 0
			if probe == normCandidate {
				score = 100
			} else {
				score = r.scorer.Score(probe, normCandidate)
			}
			if score > best.Score {
				best = Result{Candidate: candidate, Score: score, Resolved: true}
			}
		}
	}

	if !best.Resolved || best.Score < r.threshold {
		return Result{}
	}

	return best
}

func (r *Resolver) probeSet(query string) []string {
	normQuery := Normalize(query)
	probes := []string{normQuery}
	for _, alias := range r.aliases[normQuery] {
		normAlias := Normalize(alias)
		if normAlias == "" || normAlias == normQuery {
			continue
		}
		probes = append(probes, normAlias)
	}
	return probes
}

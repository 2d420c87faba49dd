package standings

// ExampleTable is the bundled fallback used when the external source is
// unavailable. Values mirror a plausible mid-season league phase.
func ExampleTable(competitionID string) Table {
	return NewTable(competitionID, []Row{
		{CanonicalName: "Manchester City", Points: 13, GoalDifference: 9, GoalsFor: 14},
		{CanonicalName: "Paris Saint-Germain", Points: 12, GoalDifference: 8, GoalsFor: 13},
		{CanonicalName: "Real Madrid", Points: 12, GoalDifference: 7, GoalsFor: 12},
		{CanonicalName: "Bayern", Points: 11, GoalDifference: 8, GoalsFor: 15},
		{CanonicalName: "Arsenal", Points: 11, GoalDifference: 6, GoalsFor: 10},
		{CanonicalName: "Napoli", Points: 10, GoalDifference: 5, GoalsFor: 11},
		{CanonicalName: "Borussia Dortmund", Points: 10, GoalDifference: 4, GoalsFor: 12},
		{CanonicalName: "Liverpool", Points: 10, GoalDifference: 4, GoalsFor: 9},
		{CanonicalName: "Inter", Points: 9, GoalDifference: 5, GoalsFor: 8},
		{CanonicalName: "Benfica", Points: 9, GoalDifference: 3, GoalsFor: 9},
		{CanonicalName: "Atlético", Points: 8, GoalDifference: 1, GoalsFor: 10},
		{CanonicalName: "Barcelona", Points: 8, GoalDifference: 0, GoalsFor: 11},
		{CanonicalName: "Juventus", Points: 7, GoalDifference: -1, GoalsFor: 7},
		{CanonicalName: "Marseille", Points: 6, GoalDifference: -2, GoalsFor: 8},
		{CanonicalName: "Newcastle", Points: 5, GoalDifference: -3, GoalsFor: 6},
		{CanonicalName: "Eintracht", Points: 4, GoalDifference: -4, GoalsFor: 7},
		{CanonicalName: "Chelsea", Points: 4, GoalDifference: -5, GoalsFor: 5},
		{CanonicalName: "Tottenham", Points: 3, GoalDifference: -6, GoalsFor: 5},
		{CanonicalName: "Atalanta", Points: 2, GoalDifference: -8, GoalsFor: 4},
		{CanonicalName: "Galatasaray", Points: 1, GoalDifference: -9, GoalsFor: 3},
	})
}

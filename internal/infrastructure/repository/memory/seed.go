package memory

import "github.com/pollahq/polla-champions/internal/domain/participant"

const CompetitionIDChampionsLeague = "ucl"

// SeedParticipants is the default pool used when no participants file is
// configured.
func SeedParticipants() []participant.Participant {
	return []participant.Participant{
		{ID: "Daniela", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Napoli", "PSG"}},
		{ID: "Carlos", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Bayern", "Inter"}},
		{ID: "Andrés", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Atlético", "Juventus"}},
		{ID: "Bryan", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Marseille", "Newcastle"}},
		{ID: "Nicolás", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Chelsea", "Tottenham"}},
		{ID: "Diego", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Borussia", "Atalanta"}},
		{ID: "Lina", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Man City", "Galatasaray"}},
		{ID: "Felipe", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Benfica", "Real Madrid"}},
		{ID: "Giovany", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Arsenal", "Liverpool"}},
		{ID: "Renzo", CompetitionID: CompetitionIDChampionsLeague, TeamLabels: [2]string{"Barcelona", "Eintracht"}},
	}
}

// SeedAliases maps common pool nicknames to official standings names.
func SeedAliases() map[string][]string {
	return map[string][]string{
		"PSG":      {"Paris Saint-Germain", "Paris"},
		"Inter":    {"FC Internazionale Milano", "Inter Milan"},
		"Man City": {"Manchester City"},
		"Borussia": {"Borussia Dortmund"},
	}
}

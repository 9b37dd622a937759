package memory

import (
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
)

const (
	LeagueIDGlobal     = "global-2026"
	LeagueIDPaddockPro = "paddock-pro-2026"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:       LeagueIDGlobal,
			Name:     "Global Championship",
			OwnerID:  "system",
			Public:   true,
			Official: true,
		},
		{
			ID:               LeagueIDPaddockPro,
			Name:             "Paddock Pro",
			OwnerID:          "system",
			Public:           true,
			RequiresApproval: true,
		},
	}
}

func SeedEvents() []event.Event {
	melbourneRace := time.Date(2026, time.March, 8, 5, 0, 0, 0, time.UTC)
	melbournePractice := melbourneRace.Add(-42 * time.Hour)
	melbourneQualifying := melbourneRace.Add(-22 * time.Hour)

	shanghaiRace := time.Date(2026, time.March, 15, 7, 0, 0, 0, time.UTC)
	shanghaiQualifying := shanghaiRace.Add(-21 * time.Hour)

	return []event.Event{
		{
			ID:            1,
			Name:          "Australian Grand Prix",
			Location:      "Melbourne",
			Country:       "Australia",
			CircuitName:   "Albert Park Circuit",
			Season:        2026,
			Round:         1,
			Tier1Deadline: &melbournePractice,
			Tier2Deadline: &melbourneQualifying,
			FinalDeadline: melbourneRace,
		},
		{
			ID:            2,
			Name:          "Chinese Grand Prix",
			Location:      "Shanghai",
			Country:       "China",
			CircuitName:   "Shanghai International Circuit",
			Season:        2026,
			Round:         2,
			Tier2Deadline: &shanghaiQualifying,
			FinalDeadline: shanghaiRace,
		},
	}
}

func SeedCompetitors() []competitor.Competitor {
	return []competitor.Competitor{
		{ID: 1, Code: "VER", FirstName: "Max", LastName: "Verstappen", Number: 1, CountryCode: "NL", Active: true},
		{ID: 4, Code: "NOR", FirstName: "Lando", LastName: "Norris", Number: 4, CountryCode: "GB", Active: true},
		{ID: 16, Code: "LEC", FirstName: "Charles", LastName: "Leclerc", Number: 16, CountryCode: "MC", Active: true},
		{ID: 44, Code: "HAM", FirstName: "Lewis", LastName: "Hamilton", Number: 44, CountryCode: "GB", Active: true},
		{ID: 63, Code: "RUS", FirstName: "George", LastName: "Russell", Number: 63, CountryCode: "GB", Active: true},
		{ID: 81, Code: "PIA", FirstName: "Oscar", LastName: "Piastri", Number: 81, CountryCode: "AU", Active: true},
	}
}

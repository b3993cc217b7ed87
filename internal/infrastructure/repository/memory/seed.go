package memory

import (
	"time"

	"github.com/adyatma/scorewire/internal/domain/country"
	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/news"
	"github.com/adyatma/scorewire/internal/domain/team"
)

// Demo data for running the API without a database.

const (
	LeagueIDPremierLeague = "eng-premier-league"
	LeagueIDLaLiga        = "esp-la-liga"

	SeasonCurrent = "2025/2026"
)

func SeedCountries() []country.Country {
	return []country.Country{
		{Code: "GB", Name: "England"},
		{Code: "ES", Name: "Spain"},
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:            LeagueIDPremierLeague,
			Name:          "Premier League",
			CountryCode:   "GB",
			CurrentSeason: SeasonCurrent,
			IsDefault:     true,
		},
		{
			ID:            LeagueIDLaLiga,
			Name:          "La Liga",
			CountryCode:   "ES",
			CurrentSeason: SeasonCurrent,
			IsDefault:     false,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "eng-ars", LeagueID: LeagueIDPremierLeague, Name: "Arsenal", Short: "ARS"},
		{ID: "eng-liv", LeagueID: LeagueIDPremierLeague, Name: "Liverpool", Short: "LIV"},
		{ID: "eng-mci", LeagueID: LeagueIDPremierLeague, Name: "Manchester City", Short: "MCI"},
		{ID: "eng-che", LeagueID: LeagueIDPremierLeague, Name: "Chelsea", Short: "CHE"},
		{ID: "esp-rma", LeagueID: LeagueIDLaLiga, Name: "Real Madrid", Short: "RMA"},
		{ID: "esp-bar", LeagueID: LeagueIDLaLiga, Name: "Barcelona", Short: "BAR"},
		{ID: "esp-atm", LeagueID: LeagueIDLaLiga, Name: "Atletico Madrid", Short: "ATM"},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         "eng-2025-0001",
			LeagueID:   LeagueIDPremierLeague,
			Season:     SeasonCurrent,
			HomeTeamID: "eng-ars",
			AwayTeamID: "eng-liv",
			HomeScore:  2,
			AwayScore:  2,
			Status:     match.StatusEnded,
			KickoffAt:  time.Date(2025, 8, 16, 15, 0, 0, 0, time.UTC),
			FinishedAt: timePtr(time.Date(2025, 8, 16, 16, 52, 0, 0, time.UTC)),
		},
		{
			ID:         "eng-2025-0002",
			LeagueID:   LeagueIDPremierLeague,
			Season:     SeasonCurrent,
			HomeTeamID: "eng-mci",
			AwayTeamID: "eng-che",
			HomeScore:  3,
			AwayScore:  1,
			Status:     match.StatusEnded,
			KickoffAt:  time.Date(2025, 8, 17, 14, 0, 0, 0, time.UTC),
			FinishedAt: timePtr(time.Date(2025, 8, 17, 15, 53, 0, 0, time.UTC)),
		},
		{
			ID:         "eng-2025-0003",
			LeagueID:   LeagueIDPremierLeague,
			Season:     SeasonCurrent,
			HomeTeamID: "eng-liv",
			AwayTeamID: "eng-mci",
			Status:     match.StatusNotStarted,
			KickoffAt:  time.Date(2025, 8, 24, 16, 30, 0, 0, time.UTC),
		},
		{
			ID:         "esp-2025-0001",
			LeagueID:   LeagueIDLaLiga,
			Season:     SeasonCurrent,
			HomeTeamID: "esp-rma",
			AwayTeamID: "esp-bar",
			HomeScore:  1,
			AwayScore:  0,
			Status:     match.StatusEnded,
			KickoffAt:  time.Date(2025, 8, 17, 19, 0, 0, 0, time.UTC),
			FinishedAt: timePtr(time.Date(2025, 8, 17, 20, 55, 0, 0, time.UTC)),
		},
	}
}

func SeedNews() []news.Article {
	publishedAt := time.Date(2025, 8, 18, 8, 0, 0, 0, time.UTC)
	return []news.Article{
		{
			ID:          "news-0001",
			Title:       "Opening weekend delivers two classics",
			Body:        "A four-goal draw in North London and a statement win for the champions set the tone for the season.",
			LeagueID:    LeagueIDPremierLeague,
			AuthorID:    "editor-demo",
			Tags:        []string{"matchday", "roundup"},
			PublishedAt: publishedAt,
			UpdatedAt:   publishedAt,
		},
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

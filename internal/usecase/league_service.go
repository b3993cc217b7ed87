package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/adyatma/scorewire/internal/domain/country"
	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/team"
)

type LeagueService struct {
	countryRepo country.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
}

func NewLeagueService(countryRepo country.Repository, leagueRepo league.Repository, teamRepo team.Repository) *LeagueService {
	return &LeagueService{
		countryRepo: countryRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
	}
}

func (s *LeagueService) ListCountries(ctx context.Context) ([]country.Country, error) {
	items, err := s.countryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	return items, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return items, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *LeagueService) ListTeams(ctx context.Context, leagueID string) ([]team.Team, error) {
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	items, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	return items, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/platform/id"
	"github.com/adyatma/scorewire/internal/platform/logging"
)

// StandingsUpdater is the slice of StandingService the match lifecycle
// needs: push live scores, back overlays out, and finalize results.
type StandingsUpdater interface {
	ApplyLiveScore(ctx context.Context, m match.Match) error
	ApplyFinalizedMatch(ctx context.Context, m match.Match) error
	RemoveLiveOverlay(ctx context.Context, m match.Match) error
}

type MatchService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	standings  StandingsUpdater
	ids        id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	standings StandingsUpdater,
	ids id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		standings:  standings,
		ids:        ids,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateMatchInput struct {
	LeagueID   string
	Season     string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Season = strings.TrimSpace(input.Season)
	if input.KickoffAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if input.Season == "" {
		input.Season = lg.CurrentSeason
	}

	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		_, exists, err := s.teamRepo.GetByID(ctx, lg.ID, teamID)
		if err != nil {
			return match.Match{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return match.Match{}, fmt.Errorf("%w: team=%s in league=%s", ErrNotFound, teamID, lg.ID)
		}
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	item := match.Match{
		ID:         matchID,
		LeagueID:   lg.ID,
		Season:     input.Season,
		HomeTeamID: strings.TrimSpace(input.HomeTeamID),
		AwayTeamID: strings.TrimSpace(input.AwayTeamID),
		Status:     match.StatusNotStarted,
		KickoffAt:  input.KickoffAt.UTC(),
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return item, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *MatchService) ListBySeason(ctx context.Context, leagueID, season string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListBySeason")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	season = strings.TrimSpace(season)
	if season == "" {
		season = lg.CurrentSeason
	}

	items, err := s.matchRepo.ListBySeason(ctx, lg.ID, season)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) ListEvents(ctx context.Context, matchID string) ([]match.Event, error) {
	if _, err := s.Get(ctx, matchID); err != nil {
		return nil, err
	}

	events, err := s.matchRepo.ListEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	return events, nil
}

type RecordEventInput struct {
	TeamID     string
	Type       string
	Minute     int
	PlayerName string
}

// RecordEvent appends a timeline entry to an in-play match. Scoring events
// bump the match score first, then push the new scoreline into the live
// standings overlay, so the table always reflects the post-event score.
func (s *MatchService) RecordEvent(ctx context.Context, matchID string, input RecordEventInput) (match.Event, match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordEvent")
	defer span.End()

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Event{}, match.Match{}, err
	}
	if !match.IsInPlayStatus(item.Status) {
		return match.Event{}, match.Match{}, fmt.Errorf("%w: events require an in-play match, match %s is %s", ErrInvalidState, item.ID, item.Status)
	}

	eventType := strings.ToUpper(strings.TrimSpace(input.Type))
	if !match.IsKnownEventType(eventType) {
		return match.Event{}, match.Match{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}
	if input.Minute < 0 {
		return match.Event{}, match.Match{}, fmt.Errorf("%w: minute cannot be negative", ErrInvalidInput)
	}

	teamID := strings.TrimSpace(input.TeamID)
	if teamID != item.HomeTeamID && teamID != item.AwayTeamID {
		return match.Event{}, match.Match{}, fmt.Errorf("%w: team %s is not playing match %s", ErrInvalidInput, teamID, item.ID)
	}

	if match.IsScoringEvent(eventType) {
		// An own goal credits the opposing side.
		creditedTeam := teamID
		if eventType == match.EventOwnGoal {
			creditedTeam = item.AwayTeamID
			if teamID == item.AwayTeamID {
				creditedTeam = item.HomeTeamID
			}
		}
		if creditedTeam == item.HomeTeamID {
			item.HomeScore++
		} else {
			item.AwayScore++
		}
		if err := s.matchRepo.Update(ctx, item); err != nil {
			return match.Event{}, match.Match{}, fmt.Errorf("update match score: %w", err)
		}
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return match.Event{}, match.Match{}, fmt.Errorf("generate event id: %w", err)
	}
	event := match.Event{
		ID:         eventID,
		MatchID:    item.ID,
		TeamID:     teamID,
		Type:       eventType,
		Minute:     input.Minute,
		PlayerName: strings.TrimSpace(input.PlayerName),
		RecordedAt: s.now(),
	}
	if err := s.matchRepo.AppendEvent(ctx, event); err != nil {
		return match.Event{}, match.Match{}, fmt.Errorf("append match event: %w", err)
	}

	if match.IsScoringEvent(eventType) {
		if err := s.standings.ApplyLiveScore(ctx, item); err != nil {
			return match.Event{}, match.Match{}, fmt.Errorf("apply live score: %w", err)
		}
	}

	return event, item, nil
}

// TransitionStatus moves a match through its lifecycle and runs the
// standings side effect the new status demands. Finalization happens here
// and only here: ENDED is terminal, so a match's result is converted to
// authoritative counters exactly once.
func (s *MatchService) TransitionStatus(ctx context.Context, matchID, newStatus string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.TransitionStatus")
	defer span.End()

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	newStatus = match.NormalizeStatus(newStatus)
	if !match.IsKnownStatus(newStatus) {
		return match.Match{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}
	if !match.CanTransition(item.Status, newStatus) {
		return match.Match{}, fmt.Errorf("%w: cannot transition match %s from %s to %s", ErrInvalidState, item.ID, item.Status, newStatus)
	}

	wasInPlay := match.IsInPlayStatus(item.Status)
	item.Status = newStatus
	if newStatus == match.StatusEnded {
		finishedAt := s.now()
		item.FinishedAt = &finishedAt
	}

	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}

	switch {
	case newStatus == match.StatusEnded:
		if err := s.standings.ApplyFinalizedMatch(ctx, item); err != nil {
			return match.Match{}, fmt.Errorf("finalize standings: %w", err)
		}
	case newStatus == match.StatusLive && !wasInPlay:
		// Kickoff: seed the overlay at the current (usually 0-0) score so
		// both teams read as live immediately.
		if err := s.standings.ApplyLiveScore(ctx, item); err != nil {
			return match.Match{}, fmt.Errorf("apply live score: %w", err)
		}
	case newStatus == match.StatusCanceled && wasInPlay:
		if err := s.standings.RemoveLiveOverlay(ctx, item); err != nil {
			return match.Match{}, fmt.Errorf("remove live overlay: %w", err)
		}
	}

	return item, nil
}

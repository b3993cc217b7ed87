package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/standing"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/platform/cache"
	"github.com/adyatma/scorewire/internal/platform/logging"
	"github.com/adyatma/scorewire/internal/platform/resilience"
)

// StandingsPublisher notifies downstream consumers that a league table
// changed. Delivery is best effort; standings writes never fail on it.
type StandingsPublisher interface {
	StandingsUpdated(ctx context.Context, leagueID, season, reason string) error
}

// TableRow is a standings record annotated for presentation. Goal difference
// is derived at read time and isLive marks teams with a match in play.
type TableRow struct {
	Record         standing.Record
	GoalDifference int
	IsLive         bool
}

// StandingService owns every mutation of the standings table. Each write is
// a single sequenced step (fetch, mutate, persist, rerank) behind a
// per-match lock, because the reversible live-overlay math is not
// commutative across interleaved updates.
type StandingService struct {
	leagueRepo   league.Repository
	teamRepo     team.Repository
	matchRepo    match.Repository
	standingRepo standing.Repository
	store        *cache.Store
	publisher    StandingsPublisher
	logger       *logging.Logger
	matchLocks   *resilience.KeyedMutex
	now          func() time.Time
}

func NewStandingService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	standingRepo standing.Repository,
	store *cache.Store,
	publisher StandingsPublisher,
	logger *logging.Logger,
) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingService{
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		store:        store,
		publisher:    publisher,
		logger:       logger,
		matchLocks:   resilience.NewKeyedMutex(),
		now:          time.Now,
	}
}

// List returns the ranked table for a league season. Season defaults to the
// league's current one. Storage failures on this read path are masked with
// an empty table; the endpoint serves spectators, not accounting.
func (s *StandingService) List(ctx context.Context, leagueID, season string) ([]TableRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.List")
	defer span.End()

	lg, season, err := s.resolveSeason(ctx, leagueID, season)
	if err != nil {
		return nil, err
	}

	loader := func(ctx context.Context) (any, error) {
		return s.loadTable(ctx, lg.ID, season)
	}

	var loaded any
	if s.store != nil {
		loaded, err = s.store.GetOrLoad(ctx, standingsCacheKey(lg.ID, season), loader)
	} else {
		loaded, err = loader(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "standings read degraded to empty table",
			"league_id", lg.ID, "season", season, "error", err)
		return []TableRow{}, nil
	}

	rows, _ := loaded.([]TableRow)
	return rows, nil
}

func (s *StandingService) loadTable(ctx context.Context, leagueID, season string) ([]TableRow, error) {
	records, err := s.standingRepo.ListBySeason(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	// Rank again on the way out so positions always match the counters we
	// actually return, even if the stored positions lag a write.
	records = standing.Rank(records)

	inPlay, err := s.matchRepo.ListInPlay(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("list in-play matches: %w", err)
	}
	liveTeams := make(map[string]bool, len(inPlay)*2)
	for _, m := range inPlay {
		liveTeams[m.HomeTeamID] = true
		liveTeams[m.AwayTeamID] = true
	}

	rows := make([]TableRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, TableRow{
			Record:         rec,
			GoalDifference: rec.GoalDifference(),
			IsLive:         liveTeams[rec.TeamID],
		})
	}

	return rows, nil
}

// Recalculate rebuilds a league season's table from scratch: zeroed records
// for the roster, every finalized match folded in kickoff order, then live
// overlays re-applied for matches currently in play. The whole set is
// swapped in one replace, so a rebuild is safe to run at any time.
func (s *StandingService) Recalculate(ctx context.Context, leagueID, season string) ([]standing.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Recalculate")
	defer span.End()

	lg, season, err := s.resolveSeason(ctx, leagueID, season)
	if err != nil {
		return nil, err
	}

	roster, err := s.teamRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: league %s has no roster", ErrNotFound, lg.ID)
	}
	teamIDs := make([]string, 0, len(roster))
	for _, t := range roster {
		teamIDs = append(teamIDs, t.ID)
	}

	finalized, err := s.matchRepo.ListFinalized(ctx, lg.ID, season)
	if err != nil {
		return nil, fmt.Errorf("list finalized matches: %w", err)
	}

	now := s.now()
	records := standing.BuildTable(lg.ID, season, teamIDs, finalized, now)

	inPlay, err := s.matchRepo.ListInPlay(ctx, lg.ID, season)
	if err != nil {
		return nil, fmt.Errorf("list in-play matches: %w", err)
	}
	if len(inPlay) > 0 {
		byTeam := make(map[string]*standing.Record, len(records))
		for idx := range records {
			byTeam[records[idx].TeamID] = &records[idx]
		}
		for _, m := range inPlay {
			if rec, ok := byTeam[m.HomeTeamID]; ok {
				standing.SetOverlay(rec, m.ID, m.HomeScore, m.AwayScore, now)
			}
			if rec, ok := byTeam[m.AwayTeamID]; ok {
				standing.SetOverlay(rec, m.ID, m.AwayScore, m.HomeScore, now)
			}
		}
		records = standing.Rank(records)
	}

	if err := s.standingRepo.ReplaceSeason(ctx, lg.ID, season, records); err != nil {
		return nil, fmt.Errorf("replace season standings: %w", err)
	}

	s.afterWrite(ctx, lg.ID, season, "recalculated")
	return records, nil
}

type RecalculateAllResult struct {
	LeagueCount  int                    `json:"league_count"`
	SuccessCount int                    `json:"success_count"`
	FailedCount  int                    `json:"failed_count"`
	WorkerCount  int                    `json:"worker_count"`
	Leagues      []RecalculateAllLeague `json:"leagues"`
}

type RecalculateAllLeague struct {
	LeagueID   string `json:"league_id"`
	Season     string `json:"season"`
	Status     string `json:"status"`
	Teams      int    `json:"teams"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"
)

// RecalculateAll rebuilds every league's current season on a bounded worker
// pool. A failed league is logged and reported, never fatal; the rebuild is
// idempotent and re-runnable.
func (s *StandingService) RecalculateAll(ctx context.Context, maxWorkers int) (RecalculateAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RecalculateAll")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return RecalculateAllResult{}, fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return RecalculateAllResult{}, nil
	}

	workerCount := maxWorkers
	if workerCount < 1 {
		workerCount = 4
	}
	if workerCount > len(leagues) {
		workerCount = len(leagues)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecalculateAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RecalculateAllLeague, len(leagues))
	var workers sync.WaitGroup
	for _, lg := range leagues {
		lg := lg
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalculateAllLeague{
				LeagueID: lg.ID,
				Season:   lg.CurrentSeason,
				Status:   recalcStatusSuccess,
			}

			records, recalcErr := s.Recalculate(ctx, lg.ID, lg.CurrentSeason)
			if recalcErr != nil {
				row.Status = recalcStatusFailed
				row.Message = recalcErr.Error()
				s.logger.ErrorContext(ctx, "league recalculation failed",
					"league_id", lg.ID, "season", lg.CurrentSeason, "error", recalcErr)
			} else {
				row.Teams = len(records)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			// Leagues submitted before the failure may still be running.
			workers.Wait()
			return RecalculateAllResult{}, fmt.Errorf("submit league to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := RecalculateAllResult{
		LeagueCount: len(leagues),
		WorkerCount: workerCount,
		Leagues:     make([]RecalculateAllLeague, 0, len(leagues)),
	}
	for row := range results {
		if row.Status == recalcStatusSuccess {
			out.SuccessCount++
		} else {
			out.FailedCount++
		}
		out.Leagues = append(out.Leagues, row)
	}
	sort.Slice(out.Leagues, func(i, j int) bool {
		return out.Leagues[i].LeagueID < out.Leagues[j].LeagueID
	})

	return out, nil
}

// ApplyLiveScore folds an in-play match's current score into both teams'
// records as a provisional overlay. Each call fully replaces the previous
// overlay for this match, so repeated updates never drift: subtract what was
// added last time, add the current score, store it for next time.
func (s *StandingService) ApplyLiveScore(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ApplyLiveScore")
	defer span.End()

	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !match.IsInPlayStatus(m.Status) {
		return fmt.Errorf("%w: live update on match %s with status %s", ErrInvalidState, m.ID, m.Status)
	}

	now := s.now()
	return s.matchLocks.WithLock(ctx, m.ID, func(ctx context.Context) error {
		if err := s.saveTeamRecord(ctx, m.LeagueID, m.Season, m.HomeTeamID, func(rec *standing.Record) {
			standing.SetOverlay(rec, m.ID, m.HomeScore, m.AwayScore, now)
		}); err != nil {
			return err
		}
		if err := s.saveTeamRecord(ctx, m.LeagueID, m.Season, m.AwayTeamID, func(rec *standing.Record) {
			standing.SetOverlay(rec, m.ID, m.AwayScore, m.HomeScore, now)
		}); err != nil {
			return err
		}
		if err := s.rerank(ctx, m.LeagueID, m.Season); err != nil {
			return err
		}

		s.afterWrite(ctx, m.LeagueID, m.Season, "live-score")
		return nil
	})
}

// ApplyFinalizedMatch converts one ended match into authoritative counters.
// Any overlay this match placed is removed first, then the full result is
// applied once, so the match's goals and points are counted exactly once
// whether or not live updates ever ran for it.
func (s *StandingService) ApplyFinalizedMatch(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ApplyFinalizedMatch")
	defer span.End()

	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if match.NormalizeStatus(m.Status) != match.StatusEnded {
		return fmt.Errorf("%w: finalize on match %s with status %s", ErrInvalidState, m.ID, m.Status)
	}

	now := s.now()
	return s.matchLocks.WithLock(ctx, m.ID, func(ctx context.Context) error {
		if err := s.saveTeamRecord(ctx, m.LeagueID, m.Season, m.HomeTeamID, func(rec *standing.Record) {
			stripMatchOverlay(rec, m.ID)
			standing.ApplyResult(rec, m.HomeScore, m.AwayScore, now)
		}); err != nil {
			return err
		}
		if err := s.saveTeamRecord(ctx, m.LeagueID, m.Season, m.AwayTeamID, func(rec *standing.Record) {
			stripMatchOverlay(rec, m.ID)
			standing.ApplyResult(rec, m.AwayScore, m.HomeScore, now)
		}); err != nil {
			return err
		}
		if err := s.rerank(ctx, m.LeagueID, m.Season); err != nil {
			return err
		}

		s.afterWrite(ctx, m.LeagueID, m.Season, "finalized")
		return nil
	})
}

// RemoveLiveOverlay backs a match's provisional contribution out of both
// teams' records without applying a result. Matches abandoned mid-play
// (canceled from LIVE or HALFTIME) go through here.
func (s *StandingService) RemoveLiveOverlay(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RemoveLiveOverlay")
	defer span.End()

	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	return s.matchLocks.WithLock(ctx, m.ID, func(ctx context.Context) error {
		for _, teamID := range []string{m.HomeTeamID, m.AwayTeamID} {
			if err := s.saveTeamRecord(ctx, m.LeagueID, m.Season, teamID, func(rec *standing.Record) {
				stripMatchOverlay(rec, m.ID)
				rec.UpdatedAt = now
			}); err != nil {
				return err
			}
		}
		if err := s.rerank(ctx, m.LeagueID, m.Season); err != nil {
			return err
		}

		s.afterWrite(ctx, m.LeagueID, m.Season, "overlay-removed")
		return nil
	})
}

// stripMatchOverlay removes the overlay only when it belongs to the given
// match. A record never carries overlays for two matches at once, but the
// guard keeps a mismatched call from corrupting unrelated counters.
func stripMatchOverlay(rec *standing.Record, matchID string) {
	if rec.Live != nil && rec.Live.MatchID == matchID {
		standing.StripOverlay(rec)
	}
}

// saveTeamRecord runs one fetch-mutate-upsert step for a team's record. A
// uniqueness conflict from a racing insert is retried once by re-fetching
// the winner's row and mutating that instead.
func (s *StandingService) saveTeamRecord(ctx context.Context, leagueID, season, teamID string, mutate func(*standing.Record)) error {
	for attempt := 0; ; attempt++ {
		rec, ok, err := s.standingRepo.Get(ctx, leagueID, season, teamID)
		if err != nil {
			return fmt.Errorf("get standing for team %s: %w", teamID, err)
		}
		if !ok {
			rec = standing.NewRecord(leagueID, season, teamID, s.now())
		}

		mutate(&rec)

		err = s.standingRepo.Upsert(ctx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) || attempt > 0 {
			return fmt.Errorf("save standing for team %s: %w", teamID, err)
		}
	}
}

// rerank re-reads the season, recomputes the total order, and persists
// positions only. Saving whole records here could clobber counters written
// by a concurrent updater for another match.
func (s *StandingService) rerank(ctx context.Context, leagueID, season string) error {
	records, err := s.standingRepo.ListBySeason(ctx, leagueID, season)
	if err != nil {
		return fmt.Errorf("list standings for rerank: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	ranked := standing.Rank(records)
	positions := make(map[string]int, len(ranked))
	for _, rec := range ranked {
		positions[rec.TeamID] = rec.Position
	}

	if err := s.standingRepo.UpdatePositions(ctx, leagueID, season, positions); err != nil {
		return fmt.Errorf("update positions: %w", err)
	}

	return nil
}

func (s *StandingService) afterWrite(ctx context.Context, leagueID, season, reason string) {
	if s.store != nil {
		s.store.DeletePrefix(ctx, standingsCachePrefix(leagueID))
	}
	if s.publisher != nil {
		if err := s.publisher.StandingsUpdated(ctx, leagueID, season, reason); err != nil {
			s.logger.WarnContext(ctx, "standings update notification failed",
				"league_id", leagueID, "season", season, "reason", reason, "error", err)
		}
	}
}

func (s *StandingService) resolveSeason(ctx context.Context, leagueID, season string) (league.League, string, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, "", fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, "", fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	season = strings.TrimSpace(season)
	if season == "" {
		season = lg.CurrentSeason
	}
	if season == "" {
		return league.League{}, "", fmt.Errorf("%w: league %s has no current season", ErrInvalidInput, leagueID)
	}

	return lg, season, nil
}

func standingsCachePrefix(leagueID string) string {
	return "standings:" + leagueID + ":"
}

func standingsCacheKey(leagueID, season string) string {
	return standingsCachePrefix(leagueID) + season
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/country"
	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/news"
	"github.com/adyatma/scorewire/internal/domain/standing"
	"github.com/adyatma/scorewire/internal/domain/team"
)

type stubCountryRepository struct {
	items []country.Country
}

func (r *stubCountryRepository) List(context.Context) ([]country.Country, error) {
	return r.items, nil
}

func (r *stubCountryRepository) GetByCode(_ context.Context, code string) (country.Country, bool, error) {
	for _, item := range r.items {
		if item.Code == code {
			return item, true, nil
		}
	}
	return country.Country{}, false, nil
}

type stubLeagueRepository struct {
	byID    map[string]league.League
	listErr error
}

func (r *stubLeagueRepository) List(context.Context) ([]league.League, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]league.League, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	item, ok := r.byID[leagueID]
	return item, ok, nil
}

type stubTeamRepository struct {
	byLeague map[string][]team.Team
}

func (r *stubTeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	return r.byLeague[leagueID], nil
}

func (r *stubTeamRepository) GetByID(_ context.Context, leagueID, teamID string) (team.Team, bool, error) {
	for _, item := range r.byLeague[leagueID] {
		if item.ID == teamID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

type stubMatchRepository struct {
	mu     sync.Mutex
	byID   map[string]match.Match
	events map[string][]match.Event
}

func newStubMatchRepository() *stubMatchRepository {
	return &stubMatchRepository{
		byID:   make(map[string]match.Match),
		events: make(map[string][]match.Event),
	}
}

func (r *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.byID[matchID]
	return item, ok, nil
}

func (r *stubMatchRepository) list(leagueID, season string, keep func(match.Match) bool) []match.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0, len(r.byID))
	for _, item := range r.byID {
		if item.LeagueID == leagueID && item.Season == season && keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubMatchRepository) ListBySeason(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.list(leagueID, season, func(match.Match) bool { return true }), nil
}

func (r *stubMatchRepository) ListFinalized(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.list(leagueID, season, func(m match.Match) bool {
		return match.NormalizeStatus(m.Status) == match.StatusEnded
	}), nil
}

func (r *stubMatchRepository) ListInPlay(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.list(leagueID, season, func(m match.Match) bool {
		return match.IsInPlayStatus(m.Status)
	}), nil
}

func (r *stubMatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[item.ID] = item
	return nil
}

func (r *stubMatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[item.ID] = item
	return nil
}

func (r *stubMatchRepository) AppendEvent(_ context.Context, item match.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[item.MatchID] = append(r.events[item.MatchID], item)
	return nil
}

func (r *stubMatchRepository) ListEvents(_ context.Context, matchID string) ([]match.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[matchID], nil
}

type stubStandingRepository struct {
	mu      sync.Mutex
	rows    map[string]standing.Record
	listErr error
	// conflictsLeft makes the next N upserts fail with ErrConflict.
	conflictsLeft int
	upserts       int
}

func newStubStandingRepository() *stubStandingRepository {
	return &stubStandingRepository{rows: make(map[string]standing.Record)}
}

func standingRowKey(leagueID, season, teamID string) string {
	return leagueID + "|" + season + "|" + teamID
}

func (r *stubStandingRepository) ListBySeason(_ context.Context, leagueID, season string) ([]standing.Record, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]standing.Record, 0, len(r.rows))
	for _, rec := range r.rows {
		if rec.LeagueID == leagueID && rec.Season == season {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (r *stubStandingRepository) Get(_ context.Context, leagueID, season, teamID string) (standing.Record, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[standingRowKey(leagueID, season, teamID)]
	return rec, ok, nil
}

func (r *stubStandingRepository) Upsert(_ context.Context, item standing.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return ErrConflict
	}
	r.rows[standingRowKey(item.LeagueID, item.Season, item.TeamID)] = item
	return nil
}

func (r *stubStandingRepository) UpdatePositions(_ context.Context, leagueID, season string, positions map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for teamID, position := range positions {
		key := standingRowKey(leagueID, season, teamID)
		if rec, ok := r.rows[key]; ok {
			rec.Position = position
			r.rows[key] = rec
		}
	}
	return nil
}

func (r *stubStandingRepository) ReplaceSeason(_ context.Context, leagueID, season string, records []standing.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, rec := range r.rows {
		if rec.LeagueID == leagueID && rec.Season == season {
			delete(r.rows, key)
		}
	}
	for _, rec := range records {
		r.rows[standingRowKey(rec.LeagueID, rec.Season, rec.TeamID)] = rec
	}
	return nil
}

type stubNewsRepository struct {
	byID map[string]news.Article
}

func newStubNewsRepository() *stubNewsRepository {
	return &stubNewsRepository{byID: make(map[string]news.Article)}
}

func (r *stubNewsRepository) List(_ context.Context, leagueID string, limit int) ([]news.Article, error) {
	out := make([]news.Article, 0, len(r.byID))
	for _, item := range r.byID {
		if leagueID != "" && item.LeagueID != leagueID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubNewsRepository) GetByID(_ context.Context, articleID string) (news.Article, bool, error) {
	item, ok := r.byID[articleID]
	return item, ok, nil
}

func (r *stubNewsRepository) Create(_ context.Context, item news.Article) error {
	r.byID[item.ID] = item
	return nil
}

func (r *stubNewsRepository) Update(_ context.Context, item news.Article) error {
	r.byID[item.ID] = item
	return nil
}

func (r *stubNewsRepository) Delete(_ context.Context, articleID string) error {
	delete(r.byID, articleID)
	return nil
}

type stubIDGenerator struct {
	next int
}

func (g *stubIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%03d", g.next), nil
}

type stubPublisher struct {
	mu      sync.Mutex
	reasons []string
}

func (p *stubPublisher) StandingsUpdated(_ context.Context, _, _, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reasons = append(p.reasons, reason)
	return nil
}

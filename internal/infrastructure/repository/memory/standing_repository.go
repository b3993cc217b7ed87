package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/standing"
)

type StandingRepository struct {
	mu    sync.RWMutex
	items map[string]standing.Record
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[string]standing.Record)}
}

func recordKey(leagueID, season, teamID string) string {
	return leagueID + "|" + season + "|" + teamID
}

// cloneRecord deep-copies the overlay pointer so callers cannot mutate
// stored state through a returned record.
func cloneRecord(rec standing.Record) standing.Record {
	if rec.Live != nil {
		overlay := *rec.Live
		rec.Live = &overlay
	}
	return rec
}

func (r *StandingRepository) ListBySeason(_ context.Context, leagueID, season string) ([]standing.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Record, 0, len(r.items))
	for _, rec := range r.items {
		if rec.LeagueID == leagueID && rec.Season == season {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out, nil
}

func (r *StandingRepository) Get(_ context.Context, leagueID, season, teamID string) (standing.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[recordKey(leagueID, season, teamID)]
	if !ok {
		return standing.Record{}, false, nil
	}

	return cloneRecord(rec), true, nil
}

func (r *StandingRepository) Upsert(_ context.Context, item standing.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[recordKey(item.LeagueID, item.Season, item.TeamID)] = cloneRecord(item)

	return nil
}

func (r *StandingRepository) UpdatePositions(_ context.Context, leagueID, season string, positions map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for teamID, position := range positions {
		key := recordKey(leagueID, season, teamID)
		if rec, ok := r.items[key]; ok {
			rec.Position = position
			r.items[key] = rec
		}
	}

	return nil
}

func (r *StandingRepository) ReplaceSeason(_ context.Context, leagueID, season string, records []standing.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, rec := range r.items {
		if rec.LeagueID == leagueID && rec.Season == season {
			delete(r.items, key)
		}
	}
	for _, rec := range records {
		r.items[recordKey(rec.LeagueID, rec.Season, rec.TeamID)] = cloneRecord(rec)
	}

	return nil
}

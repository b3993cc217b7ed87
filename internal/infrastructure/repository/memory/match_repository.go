package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	events map[string][]match.Event
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}

	return &MatchRepository{
		items:  items,
		events: make(map[string][]match.Event),
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) listWhere(leagueID, season string, keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.LeagueID != leagueID || m.Season != season {
			continue
		}
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

func (r *MatchRepository) ListBySeason(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(leagueID, season, func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) ListFinalized(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(leagueID, season, func(m match.Match) bool {
		return match.NormalizeStatus(m.Status) == match.StatusEnded
	}), nil
}

func (r *MatchRepository) ListInPlay(_ context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(leagueID, season, func(m match.Match) bool {
		return match.IsInPlayStatus(m.Status)
	}), nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return fmt.Errorf("match %s does not exist", item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *MatchRepository) AppendEvent(_ context.Context, item match.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[item.MatchID] = append(r.events[item.MatchID], item)

	return nil
}

func (r *MatchRepository) ListEvents(_ context.Context, matchID string) ([]match.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.events[matchID]
	out := make([]match.Event, len(items))
	copy(out, items)

	return out, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/team"
)

type TeamRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byLeague := make(map[string][]team.Team)
	for _, t := range teams {
		byLeague[t.LeagueID] = append(byLeague[t.LeagueID], t)
	}

	return &TeamRepository{byLeague: byLeague}
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byLeague[leagueID]
	out := make([]team.Team, len(items))
	copy(out, items)

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, leagueID, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byLeague[leagueID] {
		if t.ID == teamID {
			return t, true, nil
		}
	}

	return team.Team{}, false, nil
}

package standing

import "context"

// Repository is the keyed standings store. ReplaceSeason swaps the whole
// (league, season) set atomically and must only be used by full rebuilds.
type Repository interface {
	ListBySeason(ctx context.Context, leagueID, season string) ([]Record, error)
	Get(ctx context.Context, leagueID, season, teamID string) (Record, bool, error)
	Upsert(ctx context.Context, item Record) error
	// UpdatePositions writes position values only. Rank assignment must not
	// re-save copies of counters that a concurrent updater may have changed.
	UpdatePositions(ctx context.Context, leagueID, season string, positions map[string]int) error
	ReplaceSeason(ctx context.Context, leagueID, season string, records []Record) error
}

package match

import "context"

// Repository exposes the match feed to the standings core and the API.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListBySeason(ctx context.Context, leagueID, season string) ([]Match, error)
	ListFinalized(ctx context.Context, leagueID, season string) ([]Match, error)
	ListInPlay(ctx context.Context, leagueID, season string) ([]Match, error)
	Create(ctx context.Context, item Match) error
	Update(ctx context.Context, item Match) error
	AppendEvent(ctx context.Context, item Event) error
	ListEvents(ctx context.Context, matchID string) ([]Event, error)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adyatma/scorewire/internal/domain/match"
	qb "github.com/adyatma/scorewire/internal/platform/querybuilder"
)

type matchTableModel struct {
	ID         string       `db:"id"`
	LeagueID   string       `db:"league_id"`
	Season     string       `db:"season"`
	HomeTeamID string       `db:"home_team_id"`
	AwayTeamID string       `db:"away_team_id"`
	HomeScore  int          `db:"home_score"`
	AwayScore  int          `db:"away_score"`
	Status     string       `db:"status"`
	KickoffAt  time.Time    `db:"kickoff_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		Season:     m.Season,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     m.Status,
		KickoffAt:  m.KickoffAt,
		FinishedAt: nullTimeToTimePtr(m.FinishedAt),
	}
}

type matchEventTableModel struct {
	ID         string    `db:"id"`
	MatchID    string    `db:"match_id"`
	TeamID     string    `db:"team_id"`
	Type       string    `db:"type"`
	Minute     int       `db:"minute"`
	PlayerName string    `db:"player_name"`
	RecordedAt time.Time `db:"recorded_at"`
}

type matchInsertModel struct {
	ID         string     `db:"id"`
	LeagueID   string     `db:"league_id"`
	Season     string     `db:"season"`
	HomeTeamID string     `db:"home_team_id"`
	AwayTeamID string     `db:"away_team_id"`
	HomeScore  int        `db:"home_score"`
	AwayScore  int        `db:"away_score"`
	Status     string     `db:"status"`
	KickoffAt  time.Time  `db:"kickoff_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) listWhere(ctx context.Context, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(ctx, qb.Eq("league_id", leagueID), qb.Eq("season", season))
}

func (r *MatchRepository) ListFinalized(ctx context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(ctx,
		qb.Eq("league_id", leagueID),
		qb.Eq("season", season),
		qb.Eq("status", match.StatusEnded),
	)
}

func (r *MatchRepository) ListInPlay(ctx context.Context, leagueID, season string) ([]match.Match, error) {
	return r.listWhere(ctx,
		qb.Eq("league_id", leagueID),
		qb.Eq("season", season),
		qb.In("status", []any{match.StatusLive, match.StatusHalftime}),
	)
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	insertModel := matchInsertModel{
		ID:         item.ID,
		LeagueID:   item.LeagueID,
		Season:     item.Season,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
		Status:     item.Status,
		KickoffAt:  item.KickoffAt,
		FinishedAt: item.FinishedAt,
	}
	query, args, err := qb.InsertModel("matches", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	builder := qb.Update("matches").
		Set("home_score", item.HomeScore).
		Set("away_score", item.AwayScore).
		Set("status", item.Status).
		Where(qb.Eq("id", item.ID))
	if item.FinishedAt != nil {
		builder = builder.Set("finished_at", *item.FinishedAt)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match: %w", err)
	}

	return nil
}

func (r *MatchRepository) AppendEvent(ctx context.Context, item match.Event) error {
	insertModel := matchEventTableModel{
		ID:         item.ID,
		MatchID:    item.MatchID,
		TeamID:     item.TeamID,
		Type:       item.Type,
		Minute:     item.Minute,
		PlayerName: item.PlayerName,
		RecordedAt: item.RecordedAt,
	}
	query, args, err := qb.InsertModel("match_events", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert match event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match event: %w", err)
	}

	return nil
}

func (r *MatchRepository) ListEvents(ctx context.Context, matchID string) ([]match.Event, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("recorded_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]match.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Event{
			ID:         row.ID,
			MatchID:    row.MatchID,
			TeamID:     row.TeamID,
			Type:       row.Type,
			Minute:     row.Minute,
			PlayerName: row.PlayerName,
			RecordedAt: row.RecordedAt,
		})
	}

	return out, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adyatma/scorewire/internal/domain/standing"
	qb "github.com/adyatma/scorewire/internal/platform/querybuilder"
	"github.com/adyatma/scorewire/internal/usecase"
)

type standingTableModel struct {
	LeagueID         string         `db:"league_id"`
	Season           string         `db:"season"`
	TeamID           string         `db:"team_id"`
	Position         int            `db:"position"`
	Played           int            `db:"played"`
	Won              int            `db:"won"`
	Drawn            int            `db:"drawn"`
	Lost             int            `db:"lost"`
	GoalsFor         int            `db:"goals_for"`
	GoalsAgainst     int            `db:"goals_against"`
	Points           int            `db:"points"`
	Form             string         `db:"form"`
	LiveMatchID      sql.NullString `db:"live_match_id"`
	LiveGoalsFor     int            `db:"live_goals_for"`
	LiveGoalsAgainst int            `db:"live_goals_against"`
	LivePoints       int            `db:"live_points"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (m standingTableModel) toDomain() standing.Record {
	rec := standing.Record{
		LeagueID:     m.LeagueID,
		Season:       m.Season,
		TeamID:       m.TeamID,
		Position:     m.Position,
		Played:       m.Played,
		Won:          m.Won,
		Drawn:        m.Drawn,
		Lost:         m.Lost,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		Points:       m.Points,
		Form:         m.Form,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.LiveMatchID.Valid {
		rec.Live = &standing.Overlay{
			MatchID:      m.LiveMatchID.String,
			GoalsFor:     m.LiveGoalsFor,
			GoalsAgainst: m.LiveGoalsAgainst,
			Points:       m.LivePoints,
		}
	}
	return rec
}

func toStandingInsertModel(rec standing.Record) standingTableModel {
	model := standingTableModel{
		LeagueID:     rec.LeagueID,
		Season:       rec.Season,
		TeamID:       rec.TeamID,
		Position:     rec.Position,
		Played:       rec.Played,
		Won:          rec.Won,
		Drawn:        rec.Drawn,
		Lost:         rec.Lost,
		GoalsFor:     rec.GoalsFor,
		GoalsAgainst: rec.GoalsAgainst,
		Points:       rec.Points,
		Form:         rec.Form,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Live != nil {
		model.LiveMatchID = sql.NullString{String: rec.Live.MatchID, Valid: true}
		model.LiveGoalsFor = rec.Live.GoalsFor
		model.LiveGoalsAgainst = rec.Live.GoalsAgainst
		model.LivePoints = rec.Live.Points
	}
	return model
}

const standingUpsertSuffix = `ON CONFLICT (league_id, season, team_id)
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    drawn = EXCLUDED.drawn,
    lost = EXCLUDED.lost,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    points = EXCLUDED.points,
    form = EXCLUDED.form,
    live_match_id = EXCLUDED.live_match_id,
    live_goals_for = EXCLUDED.live_goals_for,
    live_goals_against = EXCLUDED.live_goals_against,
    live_points = EXCLUDED.live_points,
    updated_at = EXCLUDED.updated_at`

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListBySeason(ctx context.Context, leagueID, season string) ([]standing.Record, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("league_id", leagueID), qb.Eq("season", season)).
		OrderBy("position", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StandingRepository) Get(ctx context.Context, leagueID, season, teamID string) (standing.Record, bool, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("league_id", leagueID), qb.Eq("season", season), qb.Eq("team_id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return standing.Record{}, false, fmt.Errorf("build select standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.Record{}, false, nil
		}
		return standing.Record{}, false, fmt.Errorf("select standing: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *StandingRepository) Upsert(ctx context.Context, item standing.Record) error {
	query, args, err := qb.InsertModel("league_standings", toStandingInsertModel(item), standingUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert standing team=%s: %w", item.TeamID, usecase.ErrConflict)
		}
		return fmt.Errorf("upsert standing team=%s: %w", item.TeamID, err)
	}

	return nil
}

func (r *StandingRepository) UpdatePositions(ctx context.Context, leagueID, season string, positions map[string]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update positions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for teamID, position := range positions {
		query, args, err := qb.Update("league_standings").
			Set("position", position).
			Where(qb.Eq("league_id", leagueID), qb.Eq("season", season), qb.Eq("team_id", teamID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update position query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update position team=%s: %w", teamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update positions tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) ReplaceSeason(ctx context.Context, leagueID, season string, records []standing.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace season standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("league_standings").
		Where(qb.Eq("league_id", leagueID), qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	for _, item := range records {
		query, args, err := qb.InsertModel("league_standings", toStandingInsertModel(item), standingUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standing team=%s: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace season standings tx: %w", err)
	}
	return nil
}

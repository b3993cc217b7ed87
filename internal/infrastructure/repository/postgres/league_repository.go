package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adyatma/scorewire/internal/domain/league"
	qb "github.com/adyatma/scorewire/internal/platform/querybuilder"
)

type leagueTableModel struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	CountryCode   string `db:"country_code"`
	CurrentSeason string `db:"current_season"`
	IsDefault     bool   `db:"is_default"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:            m.ID,
		Name:          m.Name,
		CountryCode:   m.CountryCode,
		CurrentSeason: m.CurrentSeason,
		IsDefault:     m.IsDefault,
	}
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("is_default DESC", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}

	return row.toDomain(), true, nil
}

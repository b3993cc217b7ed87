package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adyatma/scorewire/internal/domain/country"
	qb "github.com/adyatma/scorewire/internal/platform/querybuilder"
)

type countryTableModel struct {
	Code string `db:"code"`
	Name string `db:"name"`
}

type CountryRepository struct {
	db *sqlx.DB
}

func NewCountryRepository(db *sqlx.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) List(ctx context.Context) ([]country.Country, error) {
	query, args, err := qb.Select("*").From("countries").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select countries query: %w", err)
	}

	var rows []countryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select countries: %w", err)
	}

	out := make([]country.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, country.Country{Code: row.Code, Name: row.Name})
	}

	return out, nil
}

func (r *CountryRepository) GetByCode(ctx context.Context, code string) (country.Country, bool, error) {
	query, args, err := qb.Select("*").From("countries").
		Where(qb.Eq("code", code)).
		Limit(1).
		ToSQL()
	if err != nil {
		return country.Country{}, false, fmt.Errorf("build select country query: %w", err)
	}

	var row countryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return country.Country{}, false, nil
		}
		return country.Country{}, false, fmt.Errorf("select country: %w", err)
	}

	return country.Country{Code: row.Code, Name: row.Name}, true, nil
}

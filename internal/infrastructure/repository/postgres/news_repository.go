package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/adyatma/scorewire/internal/domain/news"
	qb "github.com/adyatma/scorewire/internal/platform/querybuilder"
)

type newsTableModel struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Body        string         `db:"body"`
	LeagueID    sql.NullString `db:"league_id"`
	AuthorID    string         `db:"author_id"`
	Tags        pq.StringArray `db:"tags"`
	PublishedAt time.Time      `db:"published_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (m newsTableModel) toDomain() news.Article {
	return news.Article{
		ID:          m.ID,
		Title:       m.Title,
		Body:        m.Body,
		LeagueID:    nullStringToString(m.LeagueID),
		AuthorID:    m.AuthorID,
		Tags:        []string(m.Tags),
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type NewsRepository struct {
	db *sqlx.DB
}

func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) List(ctx context.Context, leagueID string, limit int) ([]news.Article, error) {
	builder := qb.Select("*").From("news_articles")
	if leagueID != "" {
		builder = builder.Where(qb.Eq("league_id", leagueID))
	}
	query, args, err := builder.
		OrderBy("published_at DESC", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select news query: %w", err)
	}

	var rows []newsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select news: %w", err)
	}

	out := make([]news.Article, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *NewsRepository) GetByID(ctx context.Context, articleID string) (news.Article, bool, error) {
	query, args, err := qb.Select("*").From("news_articles").
		Where(qb.Eq("id", articleID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return news.Article{}, false, fmt.Errorf("build select article query: %w", err)
	}

	var row newsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return news.Article{}, false, nil
		}
		return news.Article{}, false, fmt.Errorf("select article: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *NewsRepository) Create(ctx context.Context, item news.Article) error {
	insertModel := newsTableModel{
		ID:          item.ID,
		Title:       item.Title,
		Body:        item.Body,
		LeagueID:    stringToNullString(item.LeagueID),
		AuthorID:    item.AuthorID,
		Tags:        pq.StringArray(item.Tags),
		PublishedAt: item.PublishedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("news_articles", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert article query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

func (r *NewsRepository) Update(ctx context.Context, item news.Article) error {
	query, args, err := qb.Update("news_articles").
		Set("title", item.Title).
		Set("body", item.Body).
		Set("league_id", stringToNullString(item.LeagueID)).
		Set("tags", pq.StringArray(item.Tags)).
		Set("updated_at", item.UpdatedAt).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update article query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article: %w", err)
	}

	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, articleID string) error {
	query, args, err := qb.DeleteFrom("news_articles").
		Where(qb.Eq("id", articleID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete article query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	return nil
}

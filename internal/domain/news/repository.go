package news

import "context"

type Repository interface {
	List(ctx context.Context, leagueID string, limit int) ([]Article, error)
	GetByID(ctx context.Context, articleID string) (Article, bool, error)
	Create(ctx context.Context, item Article) error
	Update(ctx context.Context, item Article) error
	Delete(ctx context.Context, articleID string) error
}

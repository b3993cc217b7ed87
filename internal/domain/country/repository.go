package country

import "context"

type Repository interface {
	List(ctx context.Context) ([]Country, error)
	GetByCode(ctx context.Context, code string) (Country, bool, error)
}

package memory

import (
	"context"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/country"
)

type CountryRepository struct {
	mu     sync.RWMutex
	items  map[string]country.Country
	orders []string
}

func NewCountryRepository(countries []country.Country) *CountryRepository {
	items := make(map[string]country.Country, len(countries))
	orders := make([]string, 0, len(countries))
	for _, c := range countries {
		items[c.Code] = c
		orders = append(orders, c.Code)
	}

	return &CountryRepository{
		items:  items,
		orders: orders,
	}
}

func (r *CountryRepository) List(_ context.Context) ([]country.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]country.Country, 0, len(r.orders))
	for _, code := range r.orders {
		out = append(out, r.items[code])
	}

	return out, nil
}

func (r *CountryRepository) GetByCode(_ context.Context, code string) (country.Country, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[code]
	if !ok {
		return country.Country{}, false, nil
	}

	return c, true, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adyatma/scorewire/internal/domain/news"
)

type NewsRepository struct {
	mu    sync.RWMutex
	items map[string]news.Article
}

func NewNewsRepository(articles []news.Article) *NewsRepository {
	items := make(map[string]news.Article, len(articles))
	for _, a := range articles {
		items[a.ID] = a
	}

	return &NewsRepository{items: items}
}

func (r *NewsRepository) List(_ context.Context, leagueID string, limit int) ([]news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]news.Article, 0, len(r.items))
	for _, a := range r.items {
		if leagueID != "" && a.LeagueID != leagueID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *NewsRepository) GetByID(_ context.Context, articleID string) (news.Article, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[articleID]
	if !ok {
		return news.Article{}, false, nil
	}

	return a, true, nil
}

func (r *NewsRepository) Create(_ context.Context, item news.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("article %s already exists", item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *NewsRepository) Update(_ context.Context, item news.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return fmt.Errorf("article %s does not exist", item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *NewsRepository) Delete(_ context.Context, articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, articleID)

	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/news"
	"github.com/adyatma/scorewire/internal/platform/id"
)

const (
	defaultNewsLimit = 20
	maxNewsLimit     = 100
)

type NewsService struct {
	newsRepo   news.Repository
	leagueRepo league.Repository
	ids        id.Generator
	now        func() time.Time
}

func NewNewsService(newsRepo news.Repository, leagueRepo league.Repository, ids id.Generator) *NewsService {
	return &NewsService{
		newsRepo:   newsRepo,
		leagueRepo: leagueRepo,
		ids:        ids,
		now:        time.Now,
	}
}

func (s *NewsService) List(ctx context.Context, leagueID string, limit int) ([]news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NewsService.List")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID != "" {
		_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
	}

	if limit < 1 {
		limit = defaultNewsLimit
	}
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}

	items, err := s.newsRepo.List(ctx, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	return items, nil
}

func (s *NewsService) Get(ctx context.Context, articleID string) (news.Article, error) {
	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return news.Article{}, fmt.Errorf("%w: article id is required", ErrInvalidInput)
	}

	item, exists, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		return news.Article{}, fmt.Errorf("get article: %w", err)
	}
	if !exists {
		return news.Article{}, fmt.Errorf("%w: article=%s", ErrNotFound, articleID)
	}

	return item, nil
}

type ArticleInput struct {
	Title    string
	Body     string
	LeagueID string
	Tags     []string
}

func (s *NewsService) Create(ctx context.Context, authorID string, input ArticleInput) (news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NewsService.Create")
	defer span.End()

	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return news.Article{}, fmt.Errorf("%w: author id is required", ErrInvalidInput)
	}

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.LeagueID != "" {
		_, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
		if err != nil {
			return news.Article{}, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return news.Article{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}
	}

	articleID, err := s.ids.NewID()
	if err != nil {
		return news.Article{}, fmt.Errorf("generate article id: %w", err)
	}

	now := s.now()
	item := news.Article{
		ID:          articleID,
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		LeagueID:    input.LeagueID,
		AuthorID:    authorID,
		Tags:        normalizeTags(input.Tags),
		PublishedAt: now,
		UpdatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return news.Article{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.newsRepo.Create(ctx, item); err != nil {
		return news.Article{}, fmt.Errorf("create article: %w", err)
	}

	return item, nil
}

func (s *NewsService) Update(ctx context.Context, articleID string, input ArticleInput) (news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NewsService.Update")
	defer span.End()

	item, err := s.Get(ctx, articleID)
	if err != nil {
		return news.Article{}, err
	}

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.LeagueID != "" && input.LeagueID != item.LeagueID {
		_, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
		if err != nil {
			return news.Article{}, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return news.Article{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}
		item.LeagueID = input.LeagueID
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		item.Title = title
	}
	if input.Body != "" {
		item.Body = input.Body
	}
	if input.Tags != nil {
		item.Tags = normalizeTags(input.Tags)
	}
	item.UpdatedAt = s.now()

	if err := item.Validate(); err != nil {
		return news.Article{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.newsRepo.Update(ctx, item); err != nil {
		return news.Article{}, fmt.Errorf("update article: %w", err)
	}

	return item, nil
}

func (s *NewsService) Delete(ctx context.Context, articleID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NewsService.Delete")
	defer span.End()

	if _, err := s.Get(ctx, articleID); err != nil {
		return err
	}

	if err := s.newsRepo.Delete(ctx, articleID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adyatma/scorewire/internal/domain/news"
	"github.com/adyatma/scorewire/internal/usecase"
)

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNews")
	defer span.End()

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	articles, err := h.newsService.List(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list news failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]newsArticleDTO, 0, len(articles))
	for _, article := range articles {
		items = append(items, articleToDTO(article))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetNewsArticle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNewsArticle")
	defer span.End()

	articleID := r.PathValue("articleID")
	article, err := h.newsService.Get(ctx, articleID)
	if err != nil {
		h.logger.WarnContext(ctx, "get news article failed", "article_id", articleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, articleToDTO(article))
}

type newsArticleRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Body     string   `json:"body" validate:"required"`
	LeagueID string   `json:"league_id"`
	Tags     []string `json:"tags" validate:"max=10,dive,required,max=40"`
}

func (h *Handler) CreateNewsArticle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateNewsArticle")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req newsArticleRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	article, err := h.newsService.Create(ctx, principal.UserID, usecase.ArticleInput{
		Title:    req.Title,
		Body:     req.Body,
		LeagueID: req.LeagueID,
		Tags:     req.Tags,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create news article failed", "author_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, articleToDTO(article))
}

func (h *Handler) UpdateNewsArticle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateNewsArticle")
	defer span.End()

	articleID := r.PathValue("articleID")
	var req newsArticleRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	article, err := h.newsService.Update(ctx, articleID, usecase.ArticleInput{
		Title:    req.Title,
		Body:     req.Body,
		LeagueID: req.LeagueID,
		Tags:     req.Tags,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update news article failed", "article_id", articleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, articleToDTO(article))
}

func (h *Handler) DeleteNewsArticle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteNewsArticle")
	defer span.End()

	articleID := r.PathValue("articleID")
	if err := h.newsService.Delete(ctx, articleID); err != nil {
		h.logger.WarnContext(ctx, "delete news article failed", "article_id", articleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type newsArticleDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	LeagueID    string   `json:"leagueId,omitempty"`
	AuthorID    string   `json:"authorId"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"publishedAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func articleToDTO(article news.Article) newsArticleDTO {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	return newsArticleDTO{
		ID:          article.ID,
		Title:       article.Title,
		Body:        article.Body,
		LeagueID:    article.LeagueID,
		AuthorID:    article.AuthorID,
		Tags:        tags,
		PublishedAt: article.PublishedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   article.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

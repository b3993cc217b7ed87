package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/usecase"
)

func (h *Handler) ListMatchesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" {
		status = match.NormalizeStatus(status)
		if !match.IsKnownStatus(status) {
			writeError(ctx, w, fmt.Errorf("%w: unknown status %q", usecase.ErrInvalidInput, status))
			return
		}
	}

	matches, err := h.matchService.ListBySeason(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		if status != "" && m.Status != status {
			continue
		}
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID := r.PathValue("matchID")
	events, err := h.matchService.ListEvents(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchEventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventToDTO(ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createMatchRequest struct {
	LeagueID   string `json:"league_id" validate:"required"`
	Season     string `json:"season"`
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	KickoffAt  string `json:"kickoff_at" validate:"required"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoffAt, err := time.Parse(time.RFC3339, req.KickoffAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: kickoff_at must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		LeagueID:   req.LeagueID,
		Season:     req.Season,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		KickoffAt:  kickoffAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

type recordMatchEventRequest struct {
	TeamID     string `json:"team_id" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Minute     int    `json:"minute" validate:"min=0,max=150"`
	PlayerName string `json:"player_name" validate:"max=120"`
}

func (h *Handler) RecordMatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatchEvent")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req recordMatchEventRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, item, err := h.matchService.RecordEvent(ctx, matchID, usecase.RecordEventInput{
		TeamID:     req.TeamID,
		Type:       req.Type,
		Minute:     req.Minute,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match event failed", "match_id", matchID, "type", req.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchEventResultDTO{
		Event: eventToDTO(event),
		Match: matchToDTO(item),
	})
}

type updateMatchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req updateMatchStatusRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.TransitionStatus(ctx, matchID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "match status transition failed", "match_id", matchID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

type matchDTO struct {
	ID         string  `json:"id"`
	LeagueID   string  `json:"leagueId"`
	Season     string  `json:"season"`
	HomeTeamID string  `json:"homeTeamId"`
	AwayTeamID string  `json:"awayTeamId"`
	HomeScore  int     `json:"homeScore"`
	AwayScore  int     `json:"awayScore"`
	Status     string  `json:"status"`
	KickoffAt  string  `json:"kickoffAt"`
	FinishedAt *string `json:"finishedAt,omitempty"`
}

type matchEventDTO struct {
	ID         string `json:"id"`
	MatchID    string `json:"matchId"`
	TeamID     string `json:"teamId"`
	Type       string `json:"type"`
	Minute     int    `json:"minute"`
	PlayerName string `json:"playerName,omitempty"`
	RecordedAt string `json:"recordedAt"`
}

type matchEventResultDTO struct {
	Event matchEventDTO `json:"event"`
	Match matchDTO      `json:"match"`
}

func matchToDTO(m match.Match) matchDTO {
	dto := matchDTO{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		Season:     m.Season,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     m.Status,
		KickoffAt:  m.KickoffAt.UTC().Format(time.RFC3339),
	}
	if m.FinishedAt != nil {
		finished := m.FinishedAt.UTC().Format(time.RFC3339)
		dto.FinishedAt = &finished
	}

	return dto
}

func eventToDTO(ev match.Event) matchEventDTO {
	return matchEventDTO{
		ID:         ev.ID,
		MatchID:    ev.MatchID,
		TeamID:     ev.TeamID,
		Type:       ev.Type,
		Minute:     ev.Minute,
		PlayerName: ev.PlayerName,
		RecordedAt: ev.RecordedAt.UTC().Format(time.RFC3339),
	}
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/adyatma/scorewire/internal/domain/standing"
	"github.com/adyatma/scorewire/internal/usecase"
)

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	rows, err := h.standingService.List(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type recalculateStandingsRequest struct {
	LeagueID   string `json:"league_id"`
	Season     string `json:"season"`
	MaxWorkers int    `json:"max_workers" validate:"min=0,max=64"`
}

// RunRecalculateStandingsJob rebuilds standings from finalized results.
// With a league_id it rebuilds that league only; without one it walks every
// league on a bounded worker pool.
func (h *Handler) RunRecalculateStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateStandingsJob")
	defer span.End()

	req := recalculateStandingsRequest{}
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	if strings.TrimSpace(req.LeagueID) != "" {
		records, err := h.standingService.Recalculate(ctx, req.LeagueID, req.Season)
		if err != nil {
			h.logger.ErrorContext(ctx, "recalculate standings failed", "league_id", req.LeagueID, "season", req.Season, "error", err)
			writeError(ctx, w, err)
			return
		}

		items := make([]standingRecordDTO, 0, len(records))
		for _, rec := range records {
			items = append(items, standingRecordToDTO(rec))
		}

		writeSuccess(ctx, w, http.StatusOK, items)
		return
	}

	workers := req.MaxWorkers
	if workers == 0 {
		workers = h.recalcMaxWorkers
	}

	result, err := h.standingService.RecalculateAll(ctx, workers)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk standings recalculation failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type standingRecordDTO struct {
	LeagueID       string `json:"leagueId"`
	Season         string `json:"season"`
	TeamID         string `json:"teamId"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

type standingRowDTO struct {
	standingRecordDTO
	IsLive     bool            `json:"isLive"`
	LiveDetail *liveOverlayDTO `json:"live,omitempty"`
}

type liveOverlayDTO struct {
	MatchID      string `json:"matchId"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

func standingRecordToDTO(rec standing.Record) standingRecordDTO {
	return standingRecordDTO{
		LeagueID:       rec.LeagueID,
		Season:         rec.Season,
		TeamID:         rec.TeamID,
		Position:       rec.Position,
		Played:         rec.Played,
		Won:            rec.Won,
		Drawn:          rec.Drawn,
		Lost:           rec.Lost,
		GoalsFor:       rec.GoalsFor,
		GoalsAgainst:   rec.GoalsAgainst,
		GoalDifference: rec.GoalDifference(),
		Points:         rec.Points,
		Form:           rec.Form,
	}
}

func standingRowToDTO(row usecase.TableRow) standingRowDTO {
	dto := standingRowDTO{
		standingRecordDTO: standingRecordToDTO(row.Record),
		IsLive:            row.IsLive,
	}
	dto.GoalDifference = row.GoalDifference
	if row.Record.Live != nil {
		dto.LiveDetail = &liveOverlayDTO{
			MatchID:      row.Record.Live.MatchID,
			GoalsFor:     row.Record.Live.GoalsFor,
			GoalsAgainst: row.Record.Live.GoalsAgainst,
			Points:       row.Record.Live.Points,
		}
	}

	return dto
}

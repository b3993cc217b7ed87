package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/adyatma/scorewire/internal/domain/country"
	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/platform/logging"
	"github.com/adyatma/scorewire/internal/usecase"
)

const editorRole = "editor"

type Handler struct {
	leagueService   *usecase.LeagueService
	standingService *usecase.StandingService
	matchService    *usecase.MatchService
	newsService     *usecase.NewsService
	logger          *logging.Logger
	validator       *validator.Validate

	recalcMaxWorkers int
}

// SetRecalculateWorkerLimit overrides the worker count used when a bulk
// recalculation request does not ask for one.
func (h *Handler) SetRecalculateWorkerLimit(workers int) {
	h.recalcMaxWorkers = workers
}

func NewHandler(
	leagueService *usecase.LeagueService,
	standingService *usecase.StandingService,
	matchService *usecase.MatchService,
	newsService *usecase.NewsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:   leagueService,
		standingService: standingService,
		matchService:    matchService,
		newsService:     newsService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCountries")
	defer span.End()

	countries, err := h.leagueService.ListCountries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list countries failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]countryDTO, 0, len(countries))
	for _, c := range countries {
		items = append(items, countryToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	teams, err := h.leagueService.ListTeams(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type countryDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type leagueDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CountryCode   string `json:"countryCode"`
	CurrentSeason string `json:"currentSeason"`
	IsDefault     bool   `json:"isDefault"`
}

type teamDTO struct {
	ID       string `json:"id"`
	LeagueID string `json:"leagueId"`
	Name     string `json:"name"`
	Short    string `json:"short"`
}

func countryToDTO(c country.Country) countryDTO {
	return countryDTO{Code: c.Code, Name: c.Name}
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:            l.ID,
		Name:          l.Name,
		CountryCode:   l.CountryCode,
		CurrentSeason: l.CurrentSeason,
		IsDefault:     l.IsDefault,
	}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:       t.ID,
		LeagueID: t.LeagueID,
		Name:     t.Name,
		Short:    t.Short,
	}
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "cacases/internal/errors"
	cmw "cacases/internal/middleware"
	"cacases/internal/services"
	api "cacases/pkg/contracts/api/v1"
)

const (
	maxRunLimit   = 1000
	maxParamLen   = 128
	runParam      = "run"
	entityParam   = "entity"
	regionParam   = "region"
	limitParam    = "limit"
	latestRunName = services.LatestRun
)

// RunHandler serves stored runs and their entities.
type RunHandler struct {
	service      RunServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
	query        *cmw.QueryParamValidator
}

// NewRunHandler creates a new run handler with RFC 7807 error handling
func NewRunHandler(service RunServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "run_handler")),
		errorHandler: errorHandler,
		query:        cmw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the run and entity routes, mounted under /api.
func (h *RunHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/runs", h.ListRuns)
	r.Route("/runs/{run}", func(r chi.Router) {
		r.Use(h.ParamCtx(runParam))
		r.Get("/", h.GetRun)
		r.Get("/entities", h.ListEntities)
		r.With(h.ParamCtx(entityParam)).Get("/entities/{entity}", h.GetEntity)
	})

	r.Get("/entities", h.ListEntities)
	r.With(h.ParamCtx(entityParam)).Get("/entities/{entity}", h.GetEntity)

	return r
}

// ParamCtx rejects an over-long path parameter before the handler runs.
func (h *RunHandler) ParamCtx(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(chi.URLParam(r, name)) > maxParamLen {
				h.errorHandler.HandleError(w, r, apperrors.NewAppValidationError(name+" is too long").
					WithContext("param", name))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// runID picks the run from the path, then the query, then "latest".
func (h *RunHandler) runID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id := chi.URLParam(r, runParam); id != "" {
		return id, true
	}
	id, ok := h.query.ValidateString(w, r, runParam, maxParamLen)
	if !ok {
		return "", false
	}
	if id == "" {
		id = latestRunName
	}
	return id, true
}

// ListRuns handles GET /api/runs
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, limitParam, 1, maxRunLimit, 0)
	if !ok {
		return
	}

	runs, err := h.service.ListRuns(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	h.logger.DebugContext(r.Context(), "runs listed",
		slog.String("request_id", cmw.GetRequestID(r.Context())),
		slog.Int("count", len(runs)))

	render.JSON(w, r, api.RunListResponse{Runs: runs, Count: len(runs)})
}

// GetRun handles GET /api/runs/{run}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.runID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snapshot)
}

// ListEntities handles GET /api/runs/{run}/entities and GET /api/entities
func (h *RunHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.runID(w, r)
	if !ok {
		return
	}
	region, ok := h.query.ValidateString(w, r, regionParam, maxParamLen)
	if !ok {
		return
	}

	snapshot, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entities, err := h.service.ListEntities(r.Context(), snapshot.RunID, region)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.EntityListResponse{
		RunID:    snapshot.RunID,
		Region:   region,
		Entities: entities,
		Count:    len(entities),
	})
}

// GetEntity handles GET /api/runs/{run}/entities/{entity} and
// GET /api/entities/{entity}
func (h *RunHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.runID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entity, err := h.service.GetEntity(r.Context(), snapshot.RunID, chi.URLParam(r, entityParam))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.EntityResponse{
		RunID:  snapshot.RunID,
		AsOf:   snapshot.AsOf,
		Entity: entity,
	})
}

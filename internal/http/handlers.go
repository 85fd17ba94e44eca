package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/auth"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/config"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/directory"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/engine"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/model"
)

// App bundles the collaborators behind the HTTP surface. The surface is a
// thin presentation layer: it renders the engine's reconciled view and turns
// requests into engine intents.
type App struct {
	Cfg     config.Config
	Engine  *engine.Engine
	Users   *auth.Directory
	Notices *engine.Ring
	started time.Time
}

// NewApp constructs the HTTP application.
func NewApp(cfg config.Config, eng *engine.Engine, users *auth.Directory, notices *engine.Ring) *App {
	return &App{Cfg: cfg, Engine: eng, Users: users, Notices: notices, started: time.Now()}
}

// actor resolves the acting user from the X-Actor header the UI sets after
// login.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "unknown"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeDirectoryError(w http.ResponseWriter, err error) {
	if errors.Is(err, directory.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	WriteJSONError(w, http.StatusBadGateway, "directory_unavailable", err.Error())
}

func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := a.Users.Authenticate(req.Username, req.Password)
	if err != nil {
		WriteJSONError(w, http.StatusUnauthorized, "invalid_credentials", "")
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

func (a *App) stateHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.Engine.Snapshot())
}

func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	a.Engine.Load(r.Context())
	WriteJSON(w, http.StatusOK, a.Engine.Snapshot())
}

func (a *App) filtersHandler(w http.ResponseWriter, r *http.Request) {
	var u engine.FilterUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	if u.SortBy != nil && !model.ValidSortBy(*u.SortBy) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown sort field")
		return
	}
	if u.SortOrder != nil && *u.SortOrder != model.SortAsc && *u.SortOrder != model.SortDesc {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "sort_order must be asc or desc")
		return
	}
	if u.Limit != nil && *u.Limit < 1 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "limit must be >= 1")
		return
	}
	a.Engine.SetFilter(r.Context(), u)
	WriteJSON(w, http.StatusOK, a.Engine.Snapshot())
}

func (a *App) pageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Page < 1 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "page must be >= 1")
		return
	}
	a.Engine.SetPage(r.Context(), req.Page)
	WriteJSON(w, http.StatusOK, a.Engine.Snapshot())
}

func (a *App) connectivityHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online *bool `json:"online"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Online == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "online is required")
		return
	}
	a.Engine.SetOnline(r.Context(), *req.Online)
	WriteJSON(w, http.StatusOK, a.Engine.Snapshot())
}

type stockResponse struct {
	Outcome     engine.Outcome `json:"outcome"`
	QueueLength int            `json:"queue_length"`
}

func (a *App) stockHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Change int64  `json:"change"`
		Note   string `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := a.Engine.AdjustStock(r.Context(), id, req.Change, req.Note, actor(r))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	status := http.StatusOK
	if out == engine.OutcomeQueued {
		status = http.StatusAccepted
	}
	WriteJSON(w, status, stockResponse{Outcome: out, QueueLength: a.Engine.Snapshot().QueueLength})
}

func (a *App) thresholdHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Threshold *int64 `json:"threshold"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Threshold == nil || *req.Threshold < 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "threshold must be >= 0")
		return
	}
	p, err := a.Engine.SetThreshold(r.Context(), id, *req.Threshold, actor(r))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var in directory.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	switch {
	case in.Name == "":
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	case in.SKU == "":
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "sku is required")
		return
	case in.Stock < 0 || in.Threshold < 0:
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "stock and threshold must be >= 0")
		return
	case in.Price.IsNegative():
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "price must be >= 0")
		return
	}
	in.Actor = actor(r)
	p, err := a.Engine.Create(r.Context(), in)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

func (a *App) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Engine.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) selectHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !a.Engine.Select(id) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product is not in the current view")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"selected_id": id})
}

func (a *App) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	a.Engine.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) historyHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()
	f := model.HistoryFilters{}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "page must be a positive integer")
			return
		}
		f.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		f.Limit = n
	}
	if v := q.Get("start"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "start must be RFC3339")
			return
		}
		f.Start = &ts
	}
	if v := q.Get("end"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "end must be RFC3339")
			return
		}
		f.End = &ts
	}
	res, err := a.Engine.History(r.Context(), id, f)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (a *App) noticesHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.Notices.Recent())
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := a.Engine.Metrics()
	WriteJSON(w, http.StatusOK, map[string]any{
		"mutations":    m.Mutations,
		"queued":       m.Queued,
		"replayed":     m.Replayed,
		"merged":       m.Merged,
		"queue_length": m.QueueLength,
		"uptime_sec":   time.Since(a.started).Seconds(),
	})
}

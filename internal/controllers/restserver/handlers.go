package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/chrissnell/transitsearch/internal/storage"
	"github.com/chrissnell/transitsearch/pkg/responseformat"
)

// defaultRunLimit caps GET /runs when no limit is given
const defaultRunLimit = 100

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports that the server is up
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"})
}

// ListRuns returns stored runs, newest first. ?limit=0 returns all of them.
func (h *Handlers) ListRuns(w http.ResponseWriter, req *http.Request) {
	limit := defaultRunLimit
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "BAD_REQUEST", fmt.Errorf("invalid limit: %q", s))
			return
		}
		limit = n
	}

	runs, err := h.controller.store.ListRuns(req.Context(), limit)
	if err != nil {
		h.storeError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, RunList{Count: len(runs), Runs: runs})
}

// GetRun returns one run by ID
func (h *Handlers) GetRun(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	run, err := h.controller.store.GetRun(req.Context(), id)
	if err != nil {
		h.storeError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, run)
}

// GetPeriodogram returns the period/power pairs of a run's search
func (h *Handlers) GetPeriodogram(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	pg, err := h.controller.store.GetPeriodogram(req.Context(), id)
	if err != nil {
		h.storeError(w, req, err)
		return
	}
	h.formatter.WriteResponse(w, req, transformPeriodogram(id, pg))
}

// NotFound answers unknown routes
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteError(w, req, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("no route for %s", req.URL.Path))
}

func (h *Handlers) storeError(w http.ResponseWriter, req *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.formatter.WriteError(w, req, http.StatusNotFound, "NOT_FOUND", err)
		return
	}
	h.controller.logger.Errorw("result store error", "path", req.URL.Path, "error", err)
	h.formatter.WriteError(w, req, http.StatusInternalServerError, "STORE_ERROR", errors.New("failed to read the result store"))
}

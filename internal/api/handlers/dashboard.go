package handlers

import (
	"bytes"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/api/page"
	"github.com/ndewijer/Migration-Dashboard/internal/api/response"
	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// DashboardHandler serves the dashboard page and its state
type DashboardHandler struct {
	view *page.View
	log  logrus.FieldLogger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(view *page.View, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		view: view,
		log:  log,
	}
}

// Page renders the dashboard as HTML.
//
// Endpoint: GET /
// Query parameters:
//   - tab: versions, upload, rollback or backups (optional)
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	tab := model.Tab(r.URL.Query().Get("tab"))
	switch tab {
	case "", model.TabVersions, model.TabUpload, model.TabRollback, model.TabBackups:
	default:
		tab = ""
	}

	var buf bytes.Buffer
	if err := h.view.Render(&buf, tab); err != nil {
		h.log.WithError(err).Error("Failed to render dashboard")
		http.Error(w, apperrors.ErrFailedToRetrieveState.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// State returns the dashboard state as JSON.
//
// Endpoint: GET /api/dashboard
// Response: 200 OK with page.State
func (h *DashboardHandler) State(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.view.State())
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/ndewijer/Migration-Dashboard/internal/api/response"
	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/service"
)

// HistoryHandler serves the local action history
type HistoryHandler struct {
	activityService *service.ActivityService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(activityService *service.ActivityService) *HistoryHandler {
	return &HistoryHandler{
		activityService: activityService,
	}
}

// History returns the most recent dashboard actions, newest first.
//
// Endpoint: GET /api/history
// Query parameters:
//   - limit: maximum number of entries (optional, default 50)
//
// Response: 200 OK with model.ActivityResponse
// Error: 400 Bad Request for an invalid limit, 500 if the history cannot be read
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidLimit.Error(), raw)
			return
		}
		limit = parsed
	}

	history, err := h.activityService.RecentActivity(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveActivity.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

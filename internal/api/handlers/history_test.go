package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
	"github.com/ndewijer/Migration-Dashboard/internal/service"
	"github.com/ndewijer/Migration-Dashboard/internal/testutil"
)

func TestHistoryHandler(t *testing.T) {
	setupHandler := func(t *testing.T, entries int) *HistoryHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		for i := 0; i < entries; i++ {
			testutil.NewActivity().Build(t, db)
		}
		svc := service.NewActivityService(repository.NewActivityRepository(db), nil, testutil.DiscardLogger())
		return NewHistoryHandler(svc)
	}

	t.Run("returns recent activity", func(t *testing.T) {
		handler := setupHandler(t, 3)

		w := httptest.NewRecorder()
		handler.History(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp model.ActivityResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Count != 3 {
			t.Errorf("Expected 3 entries, got %d", resp.Count)
		}
	})

	t.Run("honours the limit", func(t *testing.T) {
		handler := setupHandler(t, 3)

		w := httptest.NewRecorder()
		handler.History(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/history", map[string]string{"limit": "1"}))

		var resp model.ActivityResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Count != 1 {
			t.Errorf("Expected 1 entry, got %d", resp.Count)
		}
	})

	t.Run("rejects an invalid limit", func(t *testing.T) {
		handler := setupHandler(t, 0)

		for _, limit := range []string{"abc", "0", "-3"} {
			w := httptest.NewRecorder()
			handler.History(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/history", map[string]string{"limit": limit}))

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 for limit %q, got %d", limit, w.Code)
			}
		}
	})
}

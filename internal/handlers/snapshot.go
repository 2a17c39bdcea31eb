package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quangdo/folio/internal/services"
)

type SnapshotHandler struct {
	snapshots services.SnapshotService
}

func NewSnapshotHandler(snapshots services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// HandleRun handles POST /api/snapshots/run
// @Summary Run daily snapshot
// @Description Capture the day's aggregate snapshot if not already taken
// @Tags snapshots
// @Produce json
// @Param date query string false "Snapshot date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "Invalid date"
// @Failure 500 {string} string "Internal server error"
// @Router /snapshots/run [post]
func (h *SnapshotHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	if err := h.snapshots.RunDaily(r.Context(), day); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleHistory handles GET /api/history
// @Summary Get snapshot history
// @Description Daily snapshots for charting, ordered by date ascending
// @Tags snapshots
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} models.DailySnapshot
// @Failure 400 {string} string "Invalid date parameters"
// @Failure 500 {string} string "Internal server error"
// @Router /history [get]
func (h *SnapshotHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var from, to time.Time
	var err error
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	snapshots, err := h.snapshots.History(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(snapshots)
}

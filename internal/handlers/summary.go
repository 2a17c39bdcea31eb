package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/services"
)

type SummaryHandler struct {
	returns services.ReturnService
}

func NewSummaryHandler(returns services.ReturnService) *SummaryHandler {
	return &SummaryHandler{returns: returns}
}

// HandleSummary handles GET /api/summary
// @Summary Get aggregate summary
// @Description Total assets, cumulative profit and time-weighted return across all accounts
// @Tags reports
// @Produce json
// @Param window query string false "Window kind: since_inception, ytd, trailing_year, range" default(since_inception)
// @Param from query string false "Range start (YYYY-MM-DD), window=range only"
// @Param to query string false "Range end (YYYY-MM-DD), window=range only"
// @Success 200 {object} models.Summary
// @Failure 400 {string} string "Invalid window parameters"
// @Failure 422 {string} string "Missing exchange rate"
// @Failure 500 {string} string "Internal server error"
// @Router /summary [get]
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.returns.ComputeSummary(r.Context(), window)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(summary)
}

func parseWindow(r *http.Request) (models.Window, error) {
	now := time.Now()
	switch r.URL.Query().Get("window") {
	case "", models.WindowSinceInception:
		return models.SinceInception(now), nil
	case models.WindowYearToDate:
		return models.YearToDate(now), nil
	case models.WindowTrailingYear:
		return models.TrailingYear(now), nil
	case models.WindowRange:
		from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
		if err != nil {
			return models.Window{}, &invalidParamError{"from", "expected YYYY-MM-DD"}
		}
		to := now
		if toStr := r.URL.Query().Get("to"); toStr != "" {
			to, err = time.Parse("2006-01-02", toStr)
			if err != nil {
				return models.Window{}, &invalidParamError{"to", "expected YYYY-MM-DD"}
			}
		}
		if to.Before(from) {
			return models.Window{}, &invalidParamError{"to", "must not precede from"}
		}
		return models.Range(from, to), nil
	default:
		return models.Window{}, &invalidParamError{"window", "must be one of since_inception, ytd, trailing_year, range"}
	}
}

type invalidParamError struct {
	param   string
	message string
}

func (e *invalidParamError) Error() string {
	return "invalid " + e.param + ": " + e.message
}

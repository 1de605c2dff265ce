package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/username/mtop/backend/src/config"
	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/services"
	"github.com/username/mtop/backend/src/utils"
)

// ReportHandler serves the category analysis over a stored statement.
type ReportHandler struct {
	statementService services.StatementService
}

func NewReportHandler(service services.StatementService) *ReportHandler {
	return &ReportHandler{statementService: service}
}

// HandleGetReport returns all six category results for a statement,
// narrowed by the optional row filter.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	statementID, ok := RequireStatementAccess(w, r)
	if !ok {
		return
	}

	topN, err := parseTopN(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter, err := parseLedgerFilter(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.statementService.GetReport(r.Context(), statementID, filter, topN)
	if err != nil {
		h.writeReportError(w, r, statementID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// HandleGetCategory returns a single category result for a statement.
func (h *ReportHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	statementID, ok := RequireStatementAccess(w, r)
	if !ok {
		return
	}
	category := models.Category(chi.URLParam(r, "category"))

	topN, err := parseTopN(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter, err := parseLedgerFilter(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.statementService.GetReport(r.Context(), statementID, filter, topN)
	if err != nil {
		h.writeReportError(w, r, statementID, err)
		return
	}

	result, ok := report.Result(category)
	if !ok {
		utils.SendJSONError(w, fmt.Sprintf("Unknown category %q", category), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *ReportHandler) writeReportError(w http.ResponseWriter, r *http.Request, statementID string, err error) {
	if errors.Is(err, services.ErrStatementNotFound) {
		utils.SendJSONError(w, "Statement not found", http.StatusNotFound)
		return
	}
	logger.FromContext(r.Context()).Error("Failed to build report", "statementID", statementID, "error", err)
	utils.SendJSONError(w, "Failed to build report", http.StatusInternalServerError)
}

// parseTopN reads the top_n query parameter, bounded to the allowed range,
// defaulting to the configured value.
func parseTopN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top_n")
	if raw == "" {
		return config.Cfg.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("top_n must be an integer")
	}
	if n < config.MinTopN || n > config.MaxTopN {
		return 0, fmt.Errorf("top_n must be between %d and %d", config.MinTopN, config.MaxTopN)
	}
	return n, nil
}

// parseLedgerFilter reads the optional date-range (from/to, YYYY-MM-DD) or
// month-set (months=January_2024,February_2024) filter parameters.
func parseLedgerFilter(r *http.Request) (models.LedgerFilter, error) {
	var filter models.LedgerFilter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, fmt.Errorf("from must be a YYYY-MM-DD date")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, fmt.Errorf("to must be a YYYY-MM-DD date")
		}
		// Inclusive end of day.
		filter.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	if raw := q.Get("months"); raw != "" {
		filter.Months = strings.Split(raw, ",")
	}

	return filter, filter.Validate()
}

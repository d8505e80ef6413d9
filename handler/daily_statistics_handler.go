package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/utils"
)

func (h *StatisticsHandler) GetDailyStatistics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	paymentDate, ok := h.paymentDateParam(w, r)
	if !ok {
		return
	}

	stats, err := h.Usecase.GetDailyStatistics(r.Context(), paymentDate)
	if err != nil {
		log.Errorf("[DailyStatistics] Failed to get statistics: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get statistics")
		return
	}

	writeSuccess(w, stats)
}

func (h *StatisticsHandler) ClearDailyStatistics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	paymentDate, ok := h.paymentDateParam(w, r)
	if !ok {
		return
	}
	operator := strings.TrimSpace(r.URL.Query().Get("operator"))
	if operator == "" {
		writeError(w, http.StatusBadRequest, "operator must be specified")
		return
	}

	deleted, err := h.Usecase.ClearStatistics(r.Context(), paymentDate, operator)
	if err != nil {
		log.Errorf("[DailyStatistics] Failed to clear statistics: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear statistics")
		return
	}

	writeSuccess(w, map[string]int64{"deleted": deleted})
}

func (h *StatisticsHandler) paymentDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	value := r.URL.Query().Get("payment_date")
	if value == "" {
		writeError(w, http.StatusBadRequest, "payment_date is required")
		return time.Time{}, false
	}
	paymentDate, err := utils.ParseDate(value, h.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return paymentDate, true
}

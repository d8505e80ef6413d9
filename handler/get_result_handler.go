package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/infra/db/dao"
)

func (h *StatisticsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logIDStr := r.URL.Query().Get("log_id")
	if logIDStr == "" {
		results, err := h.Usecase.GetStatisticsJobResults(r.Context())
		if err != nil {
			log.Errorf("[GetResult] Failed to list job logs: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to get results")
			return
		}
		writeSuccess(w, results)
		return
	}

	logID, err := strconv.ParseInt(logIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "log_id must be a valid integer")
		return
	}

	result, err := h.Usecase.GetStatisticsJobResult(r.Context(), logID)
	if errors.Is(err, dao.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "log_id not found")
		return
	}
	if err != nil {
		log.Errorf("[GetResult] Failed to get job log %d: %v", logID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeSuccess(w, result)
}

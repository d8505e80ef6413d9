package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/entity"
	usecase "github.com/radhian/payment-statistics/usecase/statistics"
	"github.com/radhian/payment-statistics/utils"
)

func (h *StatisticsHandler) ProcessStatistics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req entity.ProcessPaymentStatisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateProcessStatisticsRequest(req); err != nil {
		log.Warnf("[ProcessStatistics] Invalid input: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Usecase.ProcessStatisticsInit(r.Context(), req)
	if err != nil {
		if isClientError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("[ProcessStatistics] Failed to enqueue job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process payment statistics")
		return
	}

	writeSuccess(w, res)
}

func validateProcessStatisticsRequest(req entity.ProcessPaymentStatisticsRequest) error {
	if len(req.PaymentDates) == 0 && !req.TodayUpdates {
		return errors.New("payment_dates or today_updates must be provided")
	}
	for _, date := range req.PaymentDates {
		if strings.TrimSpace(date) == "" {
			return errors.New("empty date found in payment_dates")
		}
	}
	if req.BatchSize < 0 {
		return errors.New("batch_size must not be negative")
	}
	if strings.TrimSpace(req.Operator) == "" {
		return errors.New("operator must be specified")
	}
	return nil
}

func isClientError(err error) bool {
	return errors.Is(err, usecase.ErrEmptyTargetDates) ||
		errors.Is(err, usecase.ErrInvalidBatchSize) ||
		errors.Is(err, usecase.ErrEmptyOperator) ||
		errors.Is(err, utils.ErrInvalidDate)
}

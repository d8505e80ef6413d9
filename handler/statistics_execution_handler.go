package handler

import (
	"context"

	usecase "github.com/radhian/payment-statistics/usecase/statistics"
)

// StatisticsExecution runs one chunk of the oldest pending job log.
func (h *StatisticsHandler) StatisticsExecution(ctx context.Context) error {
	acquired, logID, err := h.Usecase.TryAcquireLock(ctx)
	if err != nil {
		return err
	}

	if !acquired {
		return usecase.ErrNoProcessHandled
	}

	defer h.Usecase.UnlockProcess(ctx, logID)

	return h.Usecase.ProcessStatisticsJob(ctx, logID)
}

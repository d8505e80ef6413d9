package statistics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/consts"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/utils"
)

// ProcessStatisticsInit resolves the target dates and enqueues a job log for the cron worker.
// Dates are fixed at enqueue time so every chunk works on the same set.
func (u *statisticsUsecase) ProcessStatisticsInit(ctx context.Context, req entity.ProcessPaymentStatisticsRequest) (*model.PaymentStatisticsJobLog, error) {
	if strings.TrimSpace(req.Operator) == "" {
		return nil, ErrEmptyOperator
	}
	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = u.batchSize
	}
	if batchSize < 0 {
		return nil, ErrInvalidBatchSize
	}

	dates, err := utils.ParseDates(req.PaymentDates, u.loc)
	if err != nil {
		return nil, err
	}
	dates, err = u.ResolveTargetDates(ctx, TargetDateRequest{Dates: dates, TodayUpdates: req.TodayUpdates})
	if err != nil {
		return nil, err
	}

	processInfoJSON, err := json.Marshal(entity.ProcessMetadata{
		TargetDates: utils.FormatDates(dates),
		BatchSize:   batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process info: %w", err)
	}

	timeNowUnix := u.clock.Now().Unix()
	jobLog := &model.PaymentStatisticsJobLog{
		JobType:     consts.JobTypePaymentDailyStatistics,
		Status:      consts.StatusInit,
		ProcessInfo: string(processInfoJSON),
		Result:      "",
		CreateTime:  timeNowUnix,
		CreateBy:    req.Operator,
		UpdateTime:  timeNowUnix,
		UpdateBy:    req.Operator,
	}

	if err := u.dao.CreatePaymentStatisticsJobLog(ctx, jobLog); err != nil {
		return nil, err
	}

	log.Infof("[StatisticsInit] Enqueued job log %d for dates %v by %s", jobLog.ID, utils.FormatDates(dates), req.Operator)
	return jobLog, nil
}

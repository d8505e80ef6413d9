package statistics

import (
	"context"
	"time"

	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/utils"
)

func (u *statisticsUsecase) GetStatisticsJobResults(ctx context.Context) ([]model.PaymentStatisticsJobLog, error) {
	return u.dao.GetPaymentStatisticsJobLog(ctx)
}

func (u *statisticsUsecase) GetStatisticsJobResult(ctx context.Context, logID int64) (model.PaymentStatisticsJobLog, error) {
	return u.dao.GetPaymentStatisticsJobLogByID(ctx, logID)
}

func (u *statisticsUsecase) GetDailyStatistics(ctx context.Context, paymentDate time.Time) ([]model.PaymentDailyStatistic, error) {
	return u.dao.FindStatisticsByPaymentDate(ctx, utils.DayStart(paymentDate, u.loc))
}

package statistics

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/utils"
)

// ClearStatistics deletes every persisted statistic of one day. It is an
// administrative operation; the recovery path never deletes.
func (u *statisticsUsecase) ClearStatistics(ctx context.Context, paymentDate time.Time, operator string) (int64, error) {
	if strings.TrimSpace(operator) == "" {
		return 0, ErrEmptyOperator
	}
	day := utils.DayStart(paymentDate, u.loc)

	deleted, err := u.dao.DeleteStatisticsByPaymentDate(ctx, day)
	if err != nil {
		log.Errorf("[ClearStatistics] Failed to clear %s: %v", utils.FormatDate(day), err)
		return 0, err
	}

	log.Warnf("[ClearStatistics] %s cleared %d statistic(s) for %s", operator, deleted, utils.FormatDate(day))
	return deleted, nil
}

package statistics

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/utils"
)

// TargetDateRequest selects the days a run covers. Explicit Dates win over TodayUpdates.
type TargetDateRequest struct {
	Dates        []time.Time
	TodayUpdates bool
}

// ResolveTargetDates returns the normalized days to aggregate. With TodayUpdates it
// picks the payment days of raw rows updated today.
func (u *statisticsUsecase) ResolveTargetDates(ctx context.Context, req TargetDateRequest) ([]time.Time, error) {
	if len(req.Dates) > 0 {
		return utils.UniqueDays(req.Dates, u.loc), nil
	}
	if !req.TodayUpdates {
		return nil, ErrEmptyTargetDates
	}

	from, to := utils.DayRange(u.clock.Now(), u.loc)
	paymentTimes, err := u.dao.FindPaymentDatesUpdatedBetween(ctx, from, to)
	if err != nil {
		return nil, &AggregationSourceError{Err: err}
	}

	days := utils.UniqueDays(paymentTimes, u.loc)
	if len(days) == 0 {
		return nil, ErrEmptyTargetDates
	}
	log.Infof("[TargetDates] %d payment date(s) touched by updates on %s", len(days), utils.FormatDate(from))
	return days, nil
}

package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"

	"github.com/shopspring/decimal"
)

type dailyPaymentSumRow struct {
	BusinessRegistrationNumber string
	CorpName                   string
	TotalAmount                decimal.Decimal
}

// FetchDailyPaymentSums sums payments with payment_date_time in [dayStart, dayEnd),
// grouped by business registration number and corp name.
func (d *dao) FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []dailyPaymentSumRow
	if err := db.
		Model(&model.PaymentSource{}).
		Select("business_registration_number, corp_name, SUM(amount) AS total_amount").
		Where("payment_date_time >= ? AND payment_date_time < ?", dayStart, dayEnd).
		Group("business_registration_number, corp_name").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate payment sources: %w", err)
	}

	sums := make([]entity.AggregatedPaymentSum, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, entity.AggregatedPaymentSum{
			BusinessRegistrationNumber: row.BusinessRegistrationNumber,
			CorpName:                   row.CorpName,
			PaymentDate:                dayStart,
			TotalAmount:                row.TotalAmount,
		})
	}
	return sums, nil
}

// FindPaymentDatesUpdatedBetween returns the payment timestamps of rows updated in [from, to).
// Callers normalize them to days.
func (d *dao) FindPaymentDatesUpdatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var paymentTimes []time.Time
	if err := db.
		Model(&model.PaymentSource{}).
		Where("updated_at >= ? AND updated_at < ?", from, to).
		Pluck("payment_date_time", &paymentTimes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch updated payment dates: %w", err)
	}
	return paymentTimes, nil
}

package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/radhian/payment-statistics/infra/db/model"

	"github.com/jinzhu/gorm"
)

func (d *dao) FindStatistic(ctx context.Context, businessRegistrationNumber string, paymentDate time.Time) (*model.PaymentDailyStatistic, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var stat model.PaymentDailyStatistic
	err = db.
		Where("business_registration_number = ? AND payment_date = ?", businessRegistrationNumber, paymentDate).
		First(&stat).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find statistic: %w", err)
	}
	return &stat, nil
}

func (d *dao) FindStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) ([]model.PaymentDailyStatistic, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var stats []model.PaymentDailyStatistic
	if err := db.
		Where("payment_date = ?", paymentDate).
		Order("business_registration_number ASC").
		Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch statistics: %w", err)
	}
	return stats, nil
}

func (d *dao) CreateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	db, err := d.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to create statistic: %w", err)
	}
	return nil
}

func (d *dao) UpdateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	db, err := d.conn(ctx)
	if err != nil {
		return err
	}

	res := db.
		Model(&model.PaymentDailyStatistic{}).
		Where("id = ?", payload.ID).
		Updates(map[string]interface{}{
			"corp_name":   payload.CorpName,
			"amount":      payload.Amount,
			"update_time": payload.UpdateTime,
			"update_by":   payload.UpdateBy,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update statistic: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update statistic %d: %w", payload.ID, ErrRecordNotFound)
	}
	return nil
}

func (d *dao) DeleteStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) (int64, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Where("payment_date = ?", paymentDate).Delete(&model.PaymentDailyStatistic{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete statistics: %w", res.Error)
	}
	return res.RowsAffected, nil
}

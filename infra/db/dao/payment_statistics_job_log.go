package dao

import (
	"context"
	"fmt"

	"github.com/radhian/payment-statistics/infra/db/model"

	"github.com/jinzhu/gorm"
)

func (d *dao) GetPaymentStatisticsJobLog(ctx context.Context) ([]model.PaymentStatisticsJobLog, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var logs []model.PaymentStatisticsJobLog
	if err := db.Order("create_time DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (d *dao) GetPaymentStatisticsJobLogByStatusList(ctx context.Context, statusList []int) ([]model.PaymentStatisticsJobLog, error) {
	db, err := d.conn(ctx)
	if err != nil {
		return nil, err
	}

	var jobLogList []model.PaymentStatisticsJobLog
	if err := db.
		Select("id").
		Where("status IN (?)", statusList).
		Order("create_time ASC").
		Find(&jobLogList).Error; err != nil {
		return nil, err
	}
	return jobLogList, nil
}

func (d *dao) GetPaymentStatisticsJobLogByID(ctx context.Context, logID int64) (model.PaymentStatisticsJobLog, error) {
	var logEntry model.PaymentStatisticsJobLog

	db, err := d.conn(ctx)
	if err != nil {
		return logEntry, err
	}

	err = db.First(&logEntry, logID).Error
	if gorm.IsRecordNotFoundError(err) {
		return logEntry, fmt.Errorf("log %d not found: %w", logID, ErrRecordNotFound)
	}
	if err != nil {
		return logEntry, fmt.Errorf("failed to fetch log %d: %w", logID, err)
	}
	return logEntry, nil
}

func (d *dao) CreatePaymentStatisticsJobLog(ctx context.Context, payload *model.PaymentStatisticsJobLog) error {
	db, err := d.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to create job log: %w", err)
	}
	return nil
}

func (d *dao) UpdatePaymentStatisticsJobLog(ctx context.Context, logEntry model.PaymentStatisticsJobLog) error {
	db, err := d.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Save(&logEntry).Error; err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}
	return nil
}

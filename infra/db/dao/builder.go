package dao

import (
	"context"
	"errors"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"

	"github.com/jinzhu/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type DaoMethod interface {
	FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error)
	FindPaymentDatesUpdatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)

	FindStatistic(ctx context.Context, businessRegistrationNumber string, paymentDate time.Time) (*model.PaymentDailyStatistic, error)
	FindStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) ([]model.PaymentDailyStatistic, error)
	CreateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error
	UpdateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error
	DeleteStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) (int64, error)

	GetPaymentStatisticsJobLog(ctx context.Context) ([]model.PaymentStatisticsJobLog, error)
	GetPaymentStatisticsJobLogByStatusList(ctx context.Context, statusList []int) ([]model.PaymentStatisticsJobLog, error)
	GetPaymentStatisticsJobLogByID(ctx context.Context, logID int64) (model.PaymentStatisticsJobLog, error)
	CreatePaymentStatisticsJobLog(ctx context.Context, payload *model.PaymentStatisticsJobLog) error
	UpdatePaymentStatisticsJobLog(ctx context.Context, logEntry model.PaymentStatisticsJobLog) error
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}

// Migrate creates or alters the tables this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.PaymentSource{},
		&model.PaymentDailyStatistic{},
		&model.PaymentStatisticsJobLog{},
	).Error
}

// gorm v1 has no context support, so cancellation is only honoured between queries.
func (d *dao) conn(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.db, nil
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentDailyStatistic struct {
	ID                         int64           `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessRegistrationNumber string          `gorm:"size:20;not null;unique_index:uix_payment_daily_statistics_key" json:"business_registration_number"`
	PaymentDate                time.Time       `gorm:"type:date;not null;unique_index:uix_payment_daily_statistics_key" json:"payment_date"`
	CorpName                   string          `gorm:"size:100;not null" json:"corp_name"`
	Amount                     decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	CreateTime                 int64           `gorm:"not null" json:"create_time"`
	CreateBy                   string          `gorm:"size:100;not null" json:"create_by"`
	UpdateTime                 int64           `gorm:"not null" json:"update_time"`
	UpdateBy                   string          `gorm:"size:100;not null" json:"update_by"`
}

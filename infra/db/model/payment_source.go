package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentSource struct {
	ID                         int64           `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessRegistrationNumber string          `gorm:"size:20;not null;index" json:"business_registration_number"`
	CorpName                   string          `gorm:"size:100;not null" json:"corp_name"`
	Amount                     decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	PaymentDateTime            time.Time       `gorm:"not null;index" json:"payment_date_time"`
	UpdatedAt                  time.Time       `gorm:"not null;index" json:"updated_at"`
}

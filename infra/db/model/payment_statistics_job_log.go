package model

// PaymentStatisticsJobLog tracks one queued recovery job. The cursor columns hold
// the last key reconciled by the main pass; the next chunk starts strictly after it.
type PaymentStatisticsJobLog struct {
	ID                               int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	JobType                          int64  `gorm:"not null" json:"job_type"`
	Status                           int    `gorm:"not null;index" json:"status"`
	ProcessInfo                      string `gorm:"type:text;not null" json:"process_info"`
	TotalRows                        int64  `gorm:"not null" json:"total_rows"`
	CurrentRow                       int64  `gorm:"not null" json:"current_row"`
	CursorPaymentDate                string `gorm:"size:10;not null;default:''" json:"cursor_payment_date"`
	CursorBusinessRegistrationNumber string `gorm:"size:20;not null;default:''" json:"cursor_business_registration_number"`
	Inserted                         int64  `gorm:"not null" json:"inserted"`
	Updated                          int64  `gorm:"not null" json:"updated"`
	Unchanged                        int64  `gorm:"not null" json:"unchanged"`
	Failed                           int64  `gorm:"not null" json:"failed"`
	Corrected                        int64  `gorm:"not null;default:0" json:"corrected"`
	CorrectionFailed                 int64  `gorm:"not null;default:0" json:"correction_failed"`
	Result                           string `gorm:"type:text;not null" json:"result"`
	CreateTime                       int64  `gorm:"not null" json:"create_time"`
	CreateBy                         string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime                       int64  `gorm:"not null" json:"update_time"`
	UpdateBy                         string `gorm:"size:100;not null" json:"update_by"`
}

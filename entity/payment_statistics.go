package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregatedPaymentSum is the per-business, per-day total read from raw payments.
type AggregatedPaymentSum struct {
	BusinessRegistrationNumber string
	CorpName                   string
	PaymentDate                time.Time
	TotalAmount                decimal.Decimal
}

func (s AggregatedPaymentSum) Key() StatisticKey {
	return StatisticKey{BusinessRegistrationNumber: s.BusinessRegistrationNumber, PaymentDate: s.PaymentDate}
}

// StatisticKey identifies one persisted daily statistic.
type StatisticKey struct {
	BusinessRegistrationNumber string
	PaymentDate                time.Time
}

func (k StatisticKey) String() string {
	return k.BusinessRegistrationNumber + "|" + k.PaymentDate.Format("2006-01-02")
}

// DecisionKind is the reconciler verdict. DecisionFailed only appears on log
// entries whose key could not be looked up or applied.
type DecisionKind string

const (
	DecisionInsert   DecisionKind = "insert"
	DecisionUpdate   DecisionKind = "update"
	DecisionNoChange DecisionKind = "no_change"
	DecisionFailed   DecisionKind = "failed"
)

// Decision is the reconciler's verdict for one aggregated sum.
type Decision struct {
	Kind      DecisionKind
	Key       StatisticKey
	CorpName  string
	OldAmount *decimal.Decimal
	NewAmount decimal.Decimal
}

// DecisionLogEntry is emitted once per processed item.
type DecisionLogEntry struct {
	BatchID                    string           `json:"batch_id"`
	Kind                       DecisionKind     `json:"kind"`
	BusinessRegistrationNumber string           `json:"business_registration_number"`
	PaymentDate                string           `json:"payment_date"`
	OldAmount                  *decimal.Decimal `json:"old_amount,omitempty"`
	NewAmount                  decimal.Decimal  `json:"new_amount"`
	Op                         string           `json:"op,omitempty"`
	Error                      string           `json:"error,omitempty"`
}

// KeyFailure describes one key whose decision could not be applied.
type KeyFailure struct {
	BusinessRegistrationNumber string `json:"business_registration_number"`
	PaymentDate                string `json:"payment_date"`
	Op                         string `json:"op"`
	Error                      string `json:"error"`
}

// BatchResult summarizes one RecoverBatch call.
type BatchResult struct {
	BatchID   string        `json:"batch_id"`
	Processed int64         `json:"processed"`
	Inserted  int64         `json:"inserted"`
	Updated   int64         `json:"updated"`
	Unchanged int64         `json:"unchanged"`
	Failed    int64         `json:"failed"`
	Failures  []KeyFailure  `json:"failures,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Add merges other into r. BatchID and Duration are left to the caller.
func (r *BatchResult) Add(other BatchResult) {
	r.Processed += other.Processed
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Failed += other.Failed
	r.Failures = append(r.Failures, other.Failures...)
}

// JobChunkSummary is stored as the job log result after every tick. Correction is
// set on the tick that finishes the job.
type JobChunkSummary struct {
	Chunk      BatchResult  `json:"chunk"`
	Correction *BatchResult `json:"correction,omitempty"`
}

type ProcessPaymentStatisticsRequest struct {
	PaymentDates []string `json:"payment_dates"`
	TodayUpdates bool     `json:"today_updates"`
	BatchSize    int      `json:"batch_size"`
	Operator     string   `json:"operator"`
}

type ProcessMetadata struct {
	TargetDates []string `json:"target_dates"`
	BatchSize   int      `json:"batch_size"`
}

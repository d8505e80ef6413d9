package statistics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/utils"
)

var (
	ErrEmptyTargetDates = errors.New("statistics: no target dates")
	ErrInvalidBatchSize = errors.New("statistics: batch size must be positive")
	ErrEmptyBusinessID  = errors.New("statistics: empty business registration number")
	ErrEmptyOperator    = errors.New("statistics: operator must be specified")
	ErrNoProcessHandled = errors.New("no process handled")
)

// AggregationSourceError is returned when raw payment rows could not be read.
// The core never retries it.
type AggregationSourceError struct {
	Dates []time.Time
	Err   error
}

func (e *AggregationSourceError) Error() string {
	return fmt.Sprintf("aggregation source error (dates=%s): %v", strings.Join(utils.FormatDates(e.Dates), ","), e.Err)
}

func (e *AggregationSourceError) Unwrap() error {
	return e.Err
}

// PersistenceApplyError is returned when one key's lookup or mutation failed.
type PersistenceApplyError struct {
	Key entity.StatisticKey
	Op  string
	Err error
}

func (e *PersistenceApplyError) Error() string {
	return fmt.Sprintf("persistence apply error (op=%s key=%s): %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceApplyError) Unwrap() error {
	return e.Err
}

// BatchApplyError collects every per-key failure of one batch.
// Keys not listed were applied.
type BatchApplyError struct {
	BatchID string
	Errors  []error
}

func (e *BatchApplyError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("batch %s: no failures", e.BatchID)
	}
	return fmt.Sprintf("batch %s: %d record(s) failed to apply, first: %v", e.BatchID, len(e.Errors), e.Errors[0])
}

func (e *BatchApplyError) Unwrap() []error {
	return e.Errors
}

package statistics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/consts"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/infra/metrics"
	"github.com/radhian/payment-statistics/utils"
	"github.com/shopspring/decimal"
)

// ProcessStatisticsJob runs the next chunk of a job log. Chunks are taken in
// (payment date, business id) order strictly after the stored cursor, so keys that
// show up in the source between ticks never shift the remaining work. The tick that
// exhausts the keys also corrects every statistic left out of date.
func (u *statisticsUsecase) ProcessStatisticsJob(ctx context.Context, logID int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[StatisticsJob] Panic recovered for LogID %d: %v", logID, r)
			err = fmt.Errorf("panic in job %d: %v", logID, r)
		}
	}()

	log.Infof("[StatisticsJob] Starting job for LogID: %d", logID)

	logEntry, err := u.dao.GetPaymentStatisticsJobLogByID(ctx, logID)
	if err != nil {
		log.Errorf("[StatisticsJob] Could not fetch job log %d: %v", logID, err)
		return err
	}

	dates, batchSize, err := u.parseProcessMetadata(logEntry.ProcessInfo)
	if err != nil {
		log.Errorf("[StatisticsJob] Metadata parse error for LogID %d: %v", logID, err)
		return u.failJob(ctx, logEntry, err)
	}

	sums, err := u.aggregator.AggregateDailySums(ctx, dates)
	if err != nil {
		log.Errorf("[StatisticsJob] Aggregation failed for LogID %d: %v", logID, err)
		metrics.IncJobChunk(metrics.ResultError)
		return u.failJob(ctx, logEntry, err)
	}

	remaining := keysAfter(sums, logEntry.CursorPaymentDate, logEntry.CursorBusinessRegistrationNumber)
	chunk := remaining[:utils.Min(batchSize, len(remaining))]
	params := RunParams{
		TargetDates: dates,
		BatchSize:   batchSize,
		Workers:     u.workers,
		Operator:    consts.SystemOperator,
	}

	var (
		summary entity.JobChunkSummary
		errs    []error
	)

	if len(chunk) > 0 {
		log.Infof("[StatisticsJob] Reconciling chunk (after %s|%s, size: %d, total: %d)",
			logEntry.CursorPaymentDate, logEntry.CursorBusinessRegistrationNumber, len(chunk), len(sums))

		result, applyErr := u.orchestrator.RecoverBatch(ctx, chunk, params)
		summary.Chunk = result
		if applyErr != nil {
			errs = append(errs, applyErr)
		}
		// an interrupted chunk is re-run from its start on the next tick, so its
		// counters are dropped with it
		if ctx.Err() == nil {
			advanceCursor(&logEntry, chunk, result)
		}
	}

	finished := false
	if ctx.Err() == nil && len(chunk) == len(remaining) {
		correction, corrErr := u.correctStaleStatistics(ctx, dates, sums, params)
		summary.Correction = &correction
		if corrErr != nil {
			errs = append(errs, corrErr)
		}
		if ctx.Err() == nil {
			logEntry.Corrected += correction.Inserted + correction.Updated
			logEntry.CorrectionFailed += correction.Failed
			finished = true
		}
	}

	logEntry = u.updateJobLogAfterChunk(logEntry, int64(len(sums)), finished, summary)
	// the tick's outcome is recorded even when ctx was cancelled mid-chunk
	if err := u.dao.UpdatePaymentStatisticsJobLog(context.WithoutCancel(ctx), logEntry); err != nil {
		log.Errorf("[StatisticsJob] Failed to update log %d: %v", logID, err)
		return fmt.Errorf("failed to update log: %w", err)
	}

	if applyErr := errors.Join(errs...); applyErr != nil {
		metrics.IncJobChunk(metrics.ResultError)
		log.Warnf("[StatisticsJob] Chunk for LogID %d finished with failures: %v", logID, applyErr)
		return applyErr
	}

	metrics.IncJobChunk(metrics.ResultSuccess)
	log.Infof("[StatisticsJob] Chunk completed for LogID %d (%d/%d)", logID, logEntry.CurrentRow, logEntry.TotalRows)
	return nil
}

// keysAfter returns the suffix of sums ordered strictly after the cursor.
// sums must be sorted by (payment date, business id).
func keysAfter(sums []entity.AggregatedPaymentSum, cursorDate, cursorBusiness string) []entity.AggregatedPaymentSum {
	if cursorDate == "" {
		return sums
	}
	for i, sum := range sums {
		date := utils.FormatDate(sum.PaymentDate)
		if date > cursorDate || (date == cursorDate && sum.BusinessRegistrationNumber > cursorBusiness) {
			return sums[i:]
		}
	}
	return nil
}

func advanceCursor(logEntry *model.PaymentStatisticsJobLog, chunk []entity.AggregatedPaymentSum, result entity.BatchResult) {
	last := chunk[len(chunk)-1]
	logEntry.CursorPaymentDate = utils.FormatDate(last.PaymentDate)
	logEntry.CursorBusinessRegistrationNumber = last.BusinessRegistrationNumber
	logEntry.CurrentRow += int64(len(chunk))
	logEntry.Inserted += result.Inserted
	logEntry.Updated += result.Updated
	logEntry.Unchanged += result.Unchanged
	logEntry.Failed += result.Failed
}

// correctStaleStatistics reconciles every key whose persisted amount does not match
// sums. That covers keys that appeared behind the cursor, payments changed after
// their chunk ran, and keys whose apply failed.
func (u *statisticsUsecase) correctStaleStatistics(
	ctx context.Context,
	dates []time.Time,
	sums []entity.AggregatedPaymentSum,
	params RunParams,
) (entity.BatchResult, error) {
	var total entity.BatchResult

	persisted := make(map[string]decimal.Decimal)
	for _, day := range utils.UniqueDays(dates, u.loc) {
		stats, err := u.dao.FindStatisticsByPaymentDate(ctx, day)
		if err != nil {
			return total, fmt.Errorf("failed to load statistics of %s: %w", utils.FormatDate(day), err)
		}
		for _, stat := range stats {
			persisted[utils.FormatDate(day)+"|"+stat.BusinessRegistrationNumber] = stat.Amount
		}
	}

	var stale []entity.AggregatedPaymentSum
	for _, sum := range sums {
		amount, ok := persisted[utils.FormatDate(sum.PaymentDate)+"|"+sum.BusinessRegistrationNumber]
		if !ok || !amount.Equal(sum.TotalAmount) {
			stale = append(stale, sum)
		}
	}
	if len(stale) == 0 {
		return total, nil
	}
	log.Warnf("[StatisticsJob] %d statistic(s) out of date after the last chunk, correcting", len(stale))

	var errs []error
	for start := 0; start < len(stale); start += params.BatchSize {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		end := utils.Min(start+params.BatchSize, len(stale))
		result, err := u.orchestrator.RecoverBatch(ctx, stale[start:end], params)
		total.Add(result)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// RunRecovery aggregates params.TargetDates and reconciles every chunk synchronously,
// without a job log. Chunk failures do not stop later chunks.
func (u *statisticsUsecase) RunRecovery(ctx context.Context, params RunParams) (entity.BatchResult, error) {
	var total entity.BatchResult

	batchSize := params.BatchSize
	if batchSize == 0 {
		batchSize = u.batchSize
	}
	if batchSize < 0 {
		return total, ErrInvalidBatchSize
	}
	if params.Workers <= 0 {
		params.Workers = u.workers
	}

	started := u.clock.Now()
	sums, err := u.aggregator.AggregateDailySums(ctx, params.TargetDates)
	if err != nil {
		return total, err
	}

	var errs []error
	for start := 0; start < len(sums); start += batchSize {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		end := utils.Min(start+batchSize, len(sums))
		result, err := u.orchestrator.RecoverBatch(ctx, sums[start:end], params)
		total.Add(result)
		if err != nil {
			errs = append(errs, err)
		}
	}
	total.Duration = u.clock.Now().Sub(started)

	log.Infof("[Recovery] Run done: processed=%d inserted=%d updated=%d unchanged=%d failed=%d",
		total.Processed, total.Inserted, total.Updated, total.Unchanged, total.Failed)
	return total, errors.Join(errs...)
}

func (u *statisticsUsecase) parseProcessMetadata(processInfo string) ([]time.Time, int, error) {
	var metadata entity.ProcessMetadata
	if err := json.Unmarshal([]byte(processInfo), &metadata); err != nil {
		return nil, 0, fmt.Errorf("failed to parse process metadata: %w", err)
	}
	dates, err := utils.ParseDates(metadata.TargetDates, u.loc)
	if err != nil {
		return nil, 0, err
	}
	batchSize := metadata.BatchSize
	if batchSize <= 0 {
		batchSize = u.batchSize
	}
	return dates, batchSize, nil
}

func (u *statisticsUsecase) updateJobLogAfterChunk(
	logEntry model.PaymentStatisticsJobLog,
	totalRows int64,
	finished bool,
	summary entity.JobChunkSummary,
) model.PaymentStatisticsJobLog {
	logEntry.TotalRows = totalRows
	logEntry.Result = buildResultSummary(summary)

	if finished {
		logEntry.Status = consts.StatusFinished
	} else {
		logEntry.Status = consts.StatusRunning
	}

	logEntry.UpdateTime = u.clock.Now().Unix()
	logEntry.UpdateBy = consts.SystemOperator

	return logEntry
}

func (u *statisticsUsecase) failJob(ctx context.Context, logEntry model.PaymentStatisticsJobLog, cause error) error {
	logEntry.Status = consts.StatusFailed
	logEntry.Result = buildErrorSummary(cause)
	logEntry.UpdateTime = u.clock.Now().Unix()
	logEntry.UpdateBy = consts.SystemOperator

	if err := u.dao.UpdatePaymentStatisticsJobLog(ctx, logEntry); err != nil {
		log.Errorf("[StatisticsJob] Failed to mark log %d as failed: %v", logEntry.ID, err)
		return errors.Join(cause, err)
	}
	return cause
}

func buildResultSummary(summary entity.JobChunkSummary) string {
	resBytes, err := json.Marshal(summary)
	if err != nil {
		return "{}"
	}
	return string(resBytes)
}

func buildErrorSummary(cause error) string {
	resBytes, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: cause.Error()})
	if err != nil {
		return "{}"
	}
	return string(resBytes)
}

package statistics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/radhian/payment-statistics/consts"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/infra/locker"
	"github.com/radhian/payment-statistics/utils"
	"golang.org/x/sync/errgroup"
)

// StatisticStore is the storage the orchestrator applies decisions to.
type StatisticStore interface {
	FindStatistic(ctx context.Context, businessRegistrationNumber string, paymentDate time.Time) (*model.PaymentDailyStatistic, error)
	CreateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error
	UpdateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error
}

// RunParams is supplied per invocation instead of being looked up from ambient state.
type RunParams struct {
	TargetDates []time.Time
	BatchSize   int
	Workers     int
	Operator    string
}

// Orchestrator drives aggregated sums through Reconcile and applies the result.
type Orchestrator struct {
	store    StatisticStore
	locker   *locker.Locker
	observer Observer
	clock    Clock
}

func NewOrchestrator(store StatisticStore, l *locker.Locker, observer Observer, clock Clock) *Orchestrator {
	if l == nil {
		l = locker.New()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Orchestrator{store: store, locker: l, observer: observer, clock: clock}
}

// RecoverBatch reconciles every sum against storage. A failure on one key does not
// stop the others; all failures are returned in a *BatchApplyError alongside the
// result of what was applied.
func (o *Orchestrator) RecoverBatch(ctx context.Context, sums []entity.AggregatedPaymentSum, params RunParams) (entity.BatchResult, error) {
	info := BatchInfo{
		BatchID:   uuid.NewString(),
		Size:      len(sums),
		StartedAt: o.clock.Now(),
	}
	o.observer.BatchStart(ctx, info)

	operator := params.Operator
	if operator == "" {
		operator = consts.SystemOperator
	}

	var (
		mu     sync.Mutex
		result = entity.BatchResult{BatchID: info.BatchID}
		errs   []error
	)

	process := func(sum entity.AggregatedPaymentSum) {
		decision, err := o.recoverOne(ctx, sum, operator)

		entry := entity.DecisionLogEntry{
			BatchID:                    info.BatchID,
			Kind:                       decision.Kind,
			BusinessRegistrationNumber: sum.BusinessRegistrationNumber,
			PaymentDate:                utils.FormatDate(sum.PaymentDate),
			OldAmount:                  decision.OldAmount,
			NewAmount:                  sum.TotalAmount,
		}

		mu.Lock()
		result.Processed++
		if err != nil {
			entry.Kind = entity.DecisionFailed
			entry.Op = err.Op
			entry.Error = err.Err.Error()
			result.Failed++
			result.Failures = append(result.Failures, entity.KeyFailure{
				BusinessRegistrationNumber: err.Key.BusinessRegistrationNumber,
				PaymentDate:                utils.FormatDate(err.Key.PaymentDate),
				Op:                         err.Op,
				Error:                      err.Err.Error(),
			})
			errs = append(errs, err)
		} else {
			switch decision.Kind {
			case entity.DecisionInsert:
				result.Inserted++
			case entity.DecisionUpdate:
				result.Updated++
			case entity.DecisionNoChange:
				result.Unchanged++
			}
		}
		mu.Unlock()

		o.observer.Decision(ctx, entry)
	}

	workers := params.Workers
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		for _, sum := range sums {
			if ctx.Err() != nil {
				break
			}
			process(sum)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for _, sum := range sums {
			if ctx.Err() != nil {
				break
			}
			sum := sum
			g.Go(func() error {
				process(sum)
				return nil
			})
		}
		_ = g.Wait()
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		if result.Failures[i].PaymentDate != result.Failures[j].PaymentDate {
			return result.Failures[i].PaymentDate < result.Failures[j].PaymentDate
		}
		return result.Failures[i].BusinessRegistrationNumber < result.Failures[j].BusinessRegistrationNumber
	})
	result.Duration = o.clock.Now().Sub(info.StartedAt)
	o.observer.BatchEnd(ctx, info, result)

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return result, &BatchApplyError{BatchID: info.BatchID, Errors: errs}
	}
	return result, nil
}

// recoverOne runs lookup, decision and apply for one key while holding that key's lock.
func (o *Orchestrator) recoverOne(ctx context.Context, sum entity.AggregatedPaymentSum, operator string) (entity.Decision, *PersistenceApplyError) {
	key := sum.Key()
	if key.BusinessRegistrationNumber == "" {
		return entity.Decision{Key: key}, &PersistenceApplyError{Key: key, Op: consts.OpValidate, Err: ErrEmptyBusinessID}
	}

	lockKey := "statistic:" + key.String()
	if err := o.locker.Lock(ctx, lockKey); err != nil {
		return entity.Decision{Key: key}, &PersistenceApplyError{Key: key, Op: consts.OpLock, Err: err}
	}
	defer o.locker.Unlock(lockKey)

	current, err := o.store.FindStatistic(ctx, key.BusinessRegistrationNumber, key.PaymentDate)
	if err != nil {
		return entity.Decision{Key: key}, &PersistenceApplyError{Key: key, Op: consts.OpFind, Err: err}
	}

	decision := Reconcile(sum, current)
	now := o.clock.Now().Unix()

	switch decision.Kind {
	case entity.DecisionInsert:
		stat := &model.PaymentDailyStatistic{
			BusinessRegistrationNumber: key.BusinessRegistrationNumber,
			PaymentDate:                key.PaymentDate,
			CorpName:                   decision.CorpName,
			Amount:                     decision.NewAmount,
			CreateTime:                 now,
			CreateBy:                   operator,
			UpdateTime:                 now,
			UpdateBy:                   operator,
		}
		if err := o.store.CreateStatistic(ctx, stat); err != nil {
			return decision, &PersistenceApplyError{Key: key, Op: consts.OpInsert, Err: err}
		}
	case entity.DecisionUpdate:
		stat := *current
		stat.CorpName = decision.CorpName
		stat.Amount = decision.NewAmount
		stat.UpdateTime = now
		stat.UpdateBy = operator
		if err := o.store.UpdateStatistic(ctx, &stat); err != nil {
			return decision, &PersistenceApplyError{Key: key, Op: consts.OpUpdate, Err: err}
		}
	}
	return decision, nil
}

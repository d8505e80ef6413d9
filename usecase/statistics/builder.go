package statistics

import (
	"context"
	"time"

	"github.com/radhian/payment-statistics/consts"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/infra/locker"
)

type StatisticsUsecase interface {
	ProcessStatisticsInit(ctx context.Context, req entity.ProcessPaymentStatisticsRequest) (*model.PaymentStatisticsJobLog, error)
	GetStatisticsJobResults(ctx context.Context) ([]model.PaymentStatisticsJobLog, error)
	GetStatisticsJobResult(ctx context.Context, logID int64) (model.PaymentStatisticsJobLog, error)
	GetDailyStatistics(ctx context.Context, paymentDate time.Time) ([]model.PaymentDailyStatistic, error)
	ClearStatistics(ctx context.Context, paymentDate time.Time, operator string) (int64, error)
	ProcessStatisticsJob(ctx context.Context, logID int64) error
	TryAcquireLock(ctx context.Context) (bool, int64, error)
	UnlockProcess(ctx context.Context, logID int64)
	ResolveTargetDates(ctx context.Context, req TargetDateRequest) ([]time.Time, error)
	RunRecovery(ctx context.Context, params RunParams) (entity.BatchResult, error)
}

type Options struct {
	BatchSize int
	Workers   int
	Location  *time.Location
	Observer  Observer
	Clock     Clock
}

type statisticsUsecase struct {
	dao          dao.DaoMethod
	locker       *locker.Locker
	aggregator   *Aggregator
	orchestrator *Orchestrator
	batchSize    int
	workers      int
	loc          *time.Location
	clock        Clock
}

func NewStatisticsUsecase(d dao.DaoMethod, l *locker.Locker, opts Options) StatisticsUsecase {
	if l == nil {
		l = locker.New()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = consts.DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = consts.DefaultWorkerNumber
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Observer == nil {
		opts.Observer = LogObserver{}
	}

	return &statisticsUsecase{
		dao:          d,
		locker:       l,
		aggregator:   NewAggregator(d, opts.Location),
		orchestrator: NewOrchestrator(d, l, opts.Observer, opts.Clock),
		batchSize:    opts.BatchSize,
		workers:      opts.Workers,
		loc:          opts.Location,
		clock:        opts.Clock,
	}
}

package statistics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/infra/locker"
	"github.com/radhian/payment-statistics/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type recordingObserver struct {
	mu      sync.Mutex
	starts  []BatchInfo
	entries []entity.DecisionLogEntry
	ends    []entity.BatchResult
}

func (o *recordingObserver) BatchStart(_ context.Context, info BatchInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts = append(o.starts, info)
}

func (o *recordingObserver) Decision(_ context.Context, entry entity.DecisionLogEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, entry)
}

func (o *recordingObserver) BatchEnd(_ context.Context, _ BatchInfo, result entity.BatchResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ends = append(o.ends, result)
}

func (o *recordingObserver) kinds() map[string]entity.DecisionKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]entity.DecisionKind, len(o.entries))
	for _, e := range o.entries {
		out[e.BusinessRegistrationNumber+"|"+e.PaymentDate] = e.Kind
	}
	return out
}

// faultyStore fails selected operations for one business id.
type faultyStore struct {
	*memory.Store
	failBiz    string
	failFind   bool
	failCreate bool
	failUpdate bool
	failFetch  bool
	onFind     func(biz string)
}

func (s *faultyStore) FindStatistic(ctx context.Context, biz string, paymentDate time.Time) (*model.PaymentDailyStatistic, error) {
	if s.onFind != nil {
		s.onFind(biz)
	}
	if s.failFind && biz == s.failBiz {
		return nil, errStoreDown
	}
	return s.Store.FindStatistic(ctx, biz, paymentDate)
}

func (s *faultyStore) CreateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	if s.failCreate && payload.BusinessRegistrationNumber == s.failBiz {
		return errStoreDown
	}
	return s.Store.CreateStatistic(ctx, payload)
}

func (s *faultyStore) UpdateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	if s.failUpdate && payload.BusinessRegistrationNumber == s.failBiz {
		return errStoreDown
	}
	return s.Store.UpdateStatistic(ctx, payload)
}

func (s *faultyStore) FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error) {
	if s.failFetch {
		return nil, errStoreDown
	}
	return s.Store.FetchDailyPaymentSums(ctx, dayStart, dayEnd)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedPayment(t *testing.T, store *memory.Store, biz, corp, amount string, at time.Time) {
	t.Helper()
	require.NoError(t, store.CreatePaymentSource(context.Background(), &model.PaymentSource{
		BusinessRegistrationNumber: biz,
		CorpName:                   corp,
		Amount:                     dec(amount),
		PaymentDateTime:            at,
		UpdatedAt:                  at,
	}))
}

func seedUpdatedPayment(t *testing.T, store *memory.Store, biz, amount string, paidAt, updatedAt time.Time) {
	t.Helper()
	require.NoError(t, store.CreatePaymentSource(context.Background(), &model.PaymentSource{
		BusinessRegistrationNumber: biz,
		CorpName:                   "corp",
		Amount:                     dec(amount),
		PaymentDateTime:            paidAt,
		UpdatedAt:                  updatedAt,
	}))
}

func seedStatistic(t *testing.T, store *memory.Store, biz, corp, amount string, paymentDate time.Time) {
	t.Helper()
	require.NoError(t, store.CreateStatistic(context.Background(), &model.PaymentDailyStatistic{
		BusinessRegistrationNumber: biz,
		CorpName:                   corp,
		PaymentDate:                paymentDate,
		Amount:                     dec(amount),
		CreateBy:                   "seed",
		UpdateBy:                   "seed",
	}))
}

func requireAmount(t *testing.T, store *memory.Store, biz string, paymentDate time.Time, want string) {
	t.Helper()
	stat, err := store.FindStatistic(context.Background(), biz, paymentDate)
	require.NoError(t, err)
	require.NotNil(t, stat, "statistic %s on %s", biz, paymentDate.Format("2006-01-02"))
	require.True(t, stat.Amount.Equal(dec(want)), "amount %s, want %s", stat.Amount, want)
}

type testEnv struct {
	store    *memory.Store
	observer *recordingObserver
	uc       StatisticsUsecase
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store := memory.NewStore(time.UTC)
	return newTestEnvWithDao(t, store, store, opts)
}

func newTestEnvWithDao(t *testing.T, store *memory.Store, d dao.DaoMethod, opts Options) *testEnv {
	t.Helper()
	observer := &recordingObserver{}
	if opts.Observer == nil {
		opts.Observer = observer
	}
	if opts.Clock == nil {
		opts.Clock = fixedClock{now: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)}
	}
	opts.Location = time.UTC

	return &testEnv{
		store:    store,
		observer: observer,
		uc:       NewStatisticsUsecase(d, locker.New(), opts),
	}
}

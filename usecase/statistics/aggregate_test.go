package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error)

func (f sourceFunc) FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error) {
	return f(ctx, dayStart, dayEnd)
}

func TestAggregateDailySums_EmptyDates(t *testing.T) {
	agg := NewAggregator(memory.NewStore(time.UTC), time.UTC)

	_, err := agg.AggregateDailySums(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyTargetDates)
}

func TestAggregateDailySums_SourceError(t *testing.T) {
	agg := NewAggregator(sourceFunc(func(context.Context, time.Time, time.Time) ([]entity.AggregatedPaymentSum, error) {
		return nil, errStoreDown
	}), time.UTC)

	_, err := agg.AggregateDailySums(context.Background(), []time.Time{day(2025, 1, 5)})

	var srcErr *AggregationSourceError
	require.True(t, errors.As(err, &srcErr))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, []time.Time{day(2025, 1, 5)}, srcErr.Dates)
}

func TestAggregateDailySums_HalfOpenDay(t *testing.T) {
	store := memory.NewStore(time.UTC)
	seedPayment(t, store, "10002000", "사업자1", "100", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "300", time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "999", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "999", time.Date(2025, 1, 4, 23, 59, 59, 0, time.UTC))

	sums, err := NewAggregator(store, time.UTC).AggregateDailySums(context.Background(), []time.Time{day(2025, 1, 5)})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.True(t, sums[0].TotalAmount.Equal(dec("400")))
	assert.True(t, sums[0].PaymentDate.Equal(day(2025, 1, 5)))
}

func TestAggregateDailySums_GroupsAndSorts(t *testing.T) {
	store := memory.NewStore(time.UTC)
	seedPayment(t, store, "2002231", "사업자2", "1000", time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "150", time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "250", time.Date(2025, 1, 5, 11, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "사업자1", "70", time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC))

	sums, err := NewAggregator(store, time.UTC).AggregateDailySums(context.Background(),
		[]time.Time{day(2025, 1, 5), day(2025, 1, 4), time.Date(2025, 1, 5, 13, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, sums, 3)

	assert.Equal(t, "10002000", sums[0].BusinessRegistrationNumber)
	assert.True(t, sums[0].PaymentDate.Equal(day(2025, 1, 4)))
	assert.True(t, sums[0].TotalAmount.Equal(dec("70")))

	assert.Equal(t, "10002000", sums[1].BusinessRegistrationNumber)
	assert.Equal(t, "사업자1", sums[1].CorpName)
	assert.True(t, sums[1].TotalAmount.Equal(dec("400")))

	assert.Equal(t, "2002231", sums[2].BusinessRegistrationNumber)
	assert.True(t, sums[2].TotalAmount.Equal(dec("1000")))
}

func TestAggregateDailySums_MergesCorpNames(t *testing.T) {
	store := memory.NewStore(time.UTC)
	seedPayment(t, store, "10002000", "B corp", "100", time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC))
	seedPayment(t, store, "10002000", "A corp", "50", time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	seedPayment(t, store, "", "nobody", "10", time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))

	sums, err := NewAggregator(store, time.UTC).AggregateDailySums(context.Background(), []time.Time{day(2025, 1, 5)})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "A corp", sums[0].CorpName)
	assert.True(t, sums[0].TotalAmount.Equal(dec("150")))
}

func TestAggregateDailySums_DayWithoutPayments(t *testing.T) {
	sums, err := NewAggregator(memory.NewStore(time.UTC), time.UTC).AggregateDailySums(context.Background(), []time.Time{day(2025, 1, 5)})
	require.NoError(t, err)
	assert.Empty(t, sums)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(biz, corp, amount string, at time.Time) model.PaymentSource {
	return model.PaymentSource{
		BusinessRegistrationNumber: biz,
		CorpName:                   corp,
		Amount:                     decimal.RequireFromString(amount),
		PaymentDateTime:            at,
		UpdatedAt:                  at,
	}
}

func TestFoldPaymentSources(t *testing.T) {
	rows := []model.PaymentSource{
		payment("10002000", "사업자1", "150", time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)),
		payment("2002231", "사업자2", "1000", time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)),
		payment("10002000", "사업자1", "250.50", time.Date(2025, 1, 5, 22, 0, 0, 0, time.UTC)),
		payment("10002000", "사업자1", "1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)),
		payment("10002000", "renamed", "5", time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)),
	}

	sums := FoldPaymentSources(rows, time.UTC)
	require.Len(t, sums, 4)

	assert.Equal(t, "10002000", sums[0].BusinessRegistrationNumber)
	assert.True(t, sums[0].TotalAmount.Equal(decimal.RequireFromString("400.5")))
	assert.True(t, sums[0].PaymentDate.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))

	assert.True(t, sums[1].TotalAmount.Equal(decimal.RequireFromString("1000")))
	assert.True(t, sums[2].PaymentDate.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "renamed", sums[3].CorpName)
}

func TestFoldPaymentSources_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	rows := []model.PaymentSource{
		payment("10002000", "사업자1", "100", time.Date(2025, 1, 4, 16, 0, 0, 0, time.UTC)),
	}

	sums := FoldPaymentSources(rows, loc)
	require.Len(t, sums, 1)
	assert.Equal(t, "2025-01-05", sums[0].PaymentDate.Format("2006-01-02"))
}

func TestStore_StatisticLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.UTC)
	paymentDate := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	got, err := s.FindStatistic(ctx, "10002000", paymentDate)
	require.NoError(t, err)
	assert.Nil(t, got)

	stat := &model.PaymentDailyStatistic{
		BusinessRegistrationNumber: "10002000",
		CorpName:                   "사업자1",
		PaymentDate:                paymentDate,
		Amount:                     decimal.RequireFromString("400"),
	}
	require.NoError(t, s.CreateStatistic(ctx, stat))
	assert.NotZero(t, stat.ID)

	dup := *stat
	assert.Error(t, s.CreateStatistic(ctx, &dup))

	stat.Amount = decimal.RequireFromString("500")
	require.NoError(t, s.UpdateStatistic(ctx, stat))

	got, err = s.FindStatistic(ctx, "10002000", paymentDate.Add(5*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("500")))

	err = s.UpdateStatistic(ctx, &model.PaymentDailyStatistic{ID: 99})
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)

	list, err := s.FindStatisticsByPaymentDate(ctx, paymentDate)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := s.DeleteStatisticsByPaymentDate(ctx, paymentDate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestStore_JobLogs(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.UTC)

	first := &model.PaymentStatisticsJobLog{Status: 1, CreateTime: 10}
	second := &model.PaymentStatisticsJobLog{Status: 3, CreateTime: 5}
	require.NoError(t, s.CreatePaymentStatisticsJobLog(ctx, first))
	require.NoError(t, s.CreatePaymentStatisticsJobLog(ctx, second))

	pending, err := s.GetPaymentStatisticsJobLogByStatusList(ctx, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	all, err := s.GetPaymentStatisticsJobLog(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	_, err = s.GetPaymentStatisticsJobLogByID(ctx, 77)
	assert.ErrorIs(t, err, dao.ErrRecordNotFound)
	assert.ErrorIs(t, s.UpdatePaymentStatisticsJobLog(ctx, model.PaymentStatisticsJobLog{ID: 77}), dao.ErrRecordNotFound)
}

func TestStore_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(nil)

	_, err := s.FetchDailyPaymentSums(ctx, time.Now(), time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

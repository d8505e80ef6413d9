package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/infra/locker"
	"github.com/radhian/payment-statistics/infra/memory"
	"github.com/radhian/payment-statistics/infra/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerTickIsScrapeable(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics.Init(reg)

	store := memory.NewStore(time.UTC)
	for _, biz := range []string{"10002000", "2002231"} {
		require.NoError(t, store.CreatePaymentSource(ctx, &model.PaymentSource{
			BusinessRegistrationNumber: biz,
			CorpName:                   "corp " + biz,
			Amount:                     decimal.RequireFromString("400"),
			PaymentDateTime:            time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
			UpdatedAt:                  time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
		}))
	}

	cfg := config.Config{BatchSize: 10, Workers: 1}
	h := newStatisticsHandler(store, locker.New(), cfg, time.UTC)
	_, err := h.Usecase.ProcessStatisticsInit(ctx, entity.ProcessPaymentStatisticsRequest{
		PaymentDates: []string{"2025-01-05"},
		Operator:     "admin",
	})
	require.NoError(t, err)

	executeOnce(ctx, h, 1)

	srv := newMetricsServer("0", reg)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `payment_statistics_decisions_total{kind="insert"} 2`)
	assert.Contains(t, string(body), `payment_statistics_job_chunks_total{result="success"} 1`)
	assert.Contains(t, string(body), `payment_statistics_batches_total{result="success"} 1`)
}

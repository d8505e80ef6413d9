package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/radhian/payment-statistics/handler"
	"github.com/radhian/payment-statistics/infra/locker"
	"github.com/radhian/payment-statistics/infra/memory"
	usecase "github.com/radhian/payment-statistics/usecase/statistics"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter(t *testing.T) {
	uc := usecase.NewStatisticsUsecase(memory.NewStore(time.UTC), locker.New(), usecase.Options{Observer: usecase.NopObserver{}})
	router := NewRouter(handler.NewStatisticsHandler(uc, time.UTC))

	tests := []struct {
		method   string
		target   string
		body     string
		wantCode int
	}{
		{http.MethodPost, "/payment_statistics/process", `{"payment_dates":["2025-01-05"],"operator":"admin"}`, http.StatusOK},
		{http.MethodGet, "/payment_statistics/result", "", http.StatusOK},
		{http.MethodGet, "/payment_statistics/daily?payment_date=2025-01-05", "", http.StatusOK},
		{http.MethodDelete, "/payment_statistics/daily?payment_date=2025-01-05&operator=admin", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

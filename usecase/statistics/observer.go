package statistics

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/metrics"
)

// BatchInfo describes a batch handed to the orchestrator.
type BatchInfo struct {
	BatchID   string
	Size      int
	StartedAt time.Time
}

// Observer is notified at batch start, once per decision, and at batch end.
// Implementations must be safe for concurrent Decision calls.
type Observer interface {
	BatchStart(ctx context.Context, info BatchInfo)
	Decision(ctx context.Context, entry entity.DecisionLogEntry)
	BatchEnd(ctx context.Context, info BatchInfo, result entity.BatchResult)
}

type NopObserver struct{}

func (NopObserver) BatchStart(context.Context, BatchInfo) {}

func (NopObserver) Decision(context.Context, entity.DecisionLogEntry) {}

func (NopObserver) BatchEnd(context.Context, BatchInfo, entity.BatchResult) {}

// LogObserver writes one audit line per decision.
type LogObserver struct{}

func (LogObserver) BatchStart(_ context.Context, info BatchInfo) {
	log.Infof("[Recovery] Batch %s started with %d item(s)", info.BatchID, info.Size)
}

func (LogObserver) Decision(_ context.Context, entry entity.DecisionLogEntry) {
	old := "absent"
	if entry.OldAmount != nil {
		old = entry.OldAmount.String()
	}
	if entry.Error != "" {
		log.Errorf("[Recovery] batch=%s decision=%s op=%s biz=%s date=%s old=%s new=%s error=%s",
			entry.BatchID, entry.Kind, entry.Op, entry.BusinessRegistrationNumber, entry.PaymentDate, old, entry.NewAmount, entry.Error)
		return
	}
	log.Infof("[Recovery] batch=%s decision=%s biz=%s date=%s old=%s new=%s",
		entry.BatchID, entry.Kind, entry.BusinessRegistrationNumber, entry.PaymentDate, old, entry.NewAmount)
}

func (LogObserver) BatchEnd(_ context.Context, info BatchInfo, result entity.BatchResult) {
	log.Infof("[Recovery] Batch %s done in %s: processed=%d inserted=%d updated=%d unchanged=%d failed=%d",
		info.BatchID, result.Duration, result.Processed, result.Inserted, result.Updated, result.Unchanged, result.Failed)
}

// MetricsObserver feeds prometheus counters. metrics.Init must have been called
// for anything to be recorded.
type MetricsObserver struct{}

func (MetricsObserver) BatchStart(context.Context, BatchInfo) {}

func (MetricsObserver) Decision(_ context.Context, entry entity.DecisionLogEntry) {
	if entry.Error != "" {
		return
	}
	metrics.IncDecision(string(entry.Kind))
}

func (MetricsObserver) BatchEnd(_ context.Context, _ BatchInfo, result entity.BatchResult) {
	outcome := metrics.ResultSuccess
	if result.Failed > 0 {
		outcome = metrics.ResultError
	}
	for _, f := range result.Failures {
		metrics.IncApplyError(f.Op)
	}
	metrics.ObserveBatch(outcome, result.Duration)
}

// MultiObserver fans out to every observer in order.
type MultiObserver []Observer

func (m MultiObserver) BatchStart(ctx context.Context, info BatchInfo) {
	for _, o := range m {
		o.BatchStart(ctx, info)
	}
}

func (m MultiObserver) Decision(ctx context.Context, entry entity.DecisionLogEntry) {
	for _, o := range m {
		o.Decision(ctx, entry)
	}
}

func (m MultiObserver) BatchEnd(ctx context.Context, info BatchInfo, result entity.BatchResult) {
	for _, o := range m {
		o.BatchEnd(ctx, info, result)
	}
}

package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/utils"
)

// PaymentSumSource reads grouped daily sums of raw payments in [dayStart, dayEnd).
type PaymentSumSource interface {
	FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error)
}

// Aggregator produces one AggregatedPaymentSum per (business, day) for a set of days.
type Aggregator struct {
	source PaymentSumSource
	loc    *time.Location
}

func NewAggregator(source PaymentSumSource, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{source: source, loc: loc}
}

// AggregateDailySums returns sums for exactly the given days, sorted by (day, business id).
func (a *Aggregator) AggregateDailySums(ctx context.Context, dates []time.Time) ([]entity.AggregatedPaymentSum, error) {
	if len(dates) == 0 {
		return nil, ErrEmptyTargetDates
	}
	days := utils.UniqueDays(dates, a.loc)

	var result []entity.AggregatedPaymentSum
	for _, day := range days {
		dayStart, dayEnd := utils.DayRange(day, a.loc)
		rows, err := a.source.FetchDailyPaymentSums(ctx, dayStart, dayEnd)
		if err != nil {
			log.Errorf("[Aggregator] Failed to read payments for %s: %v", utils.FormatDate(dayStart), err)
			return nil, &AggregationSourceError{Dates: days, Err: err}
		}
		result = append(result, mergeByKey(rows, dayStart)...)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].PaymentDate.Equal(result[j].PaymentDate) {
			return result[i].PaymentDate.Before(result[j].PaymentDate)
		}
		return result[i].BusinessRegistrationNumber < result[j].BusinessRegistrationNumber
	})

	log.Infof("[Aggregator] Aggregated %d daily sums for %d date(s)", len(result), len(days))
	return result, nil
}

// mergeByKey collapses rows sharing a business id (the source groups by corp name too).
// The lexicographically first corp name wins.
func mergeByKey(rows []entity.AggregatedPaymentSum, day time.Time) []entity.AggregatedPaymentSum {
	sorted := make([]entity.AggregatedPaymentSum, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BusinessRegistrationNumber != sorted[j].BusinessRegistrationNumber {
			return sorted[i].BusinessRegistrationNumber < sorted[j].BusinessRegistrationNumber
		}
		return sorted[i].CorpName < sorted[j].CorpName
	})

	index := make(map[string]int, len(sorted))
	merged := make([]entity.AggregatedPaymentSum, 0, len(sorted))
	for _, row := range sorted {
		if row.BusinessRegistrationNumber == "" {
			log.Warnf("[Aggregator] Skipping %s sum without business registration number (amount=%s)", utils.FormatDate(day), row.TotalAmount)
			continue
		}
		row.PaymentDate = day
		if i, ok := index[row.BusinessRegistrationNumber]; ok {
			log.Warnf("[Aggregator] Business %s has several corp names on %s (%q, %q), merging",
				row.BusinessRegistrationNumber, utils.FormatDate(day), merged[i].CorpName, row.CorpName)
			merged[i].TotalAmount = merged[i].TotalAmount.Add(row.TotalAmount)
			continue
		}
		index[row.BusinessRegistrationNumber] = len(merged)
		merged = append(merged, row)
	}
	return merged
}

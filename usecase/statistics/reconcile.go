package statistics

import (
	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/model"
)

// Reconcile decides what the persisted statistic for sum's key should become.
// current is nil when no statistic exists yet. Amounts are compared by decimal
// value, so 400 and 400.00 are equal.
func Reconcile(sum entity.AggregatedPaymentSum, current *model.PaymentDailyStatistic) entity.Decision {
	decision := entity.Decision{
		Key:       sum.Key(),
		CorpName:  sum.CorpName,
		NewAmount: sum.TotalAmount,
	}

	if current == nil {
		decision.Kind = entity.DecisionInsert
		return decision
	}

	old := current.Amount
	decision.OldAmount = &old
	if old.Equal(sum.TotalAmount) {
		decision.Kind = entity.DecisionNoChange
		return decision
	}

	decision.Kind = entity.DecisionUpdate
	return decision
}

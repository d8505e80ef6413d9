package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/radhian/payment-statistics/entity"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/db/model"
	"github.com/radhian/payment-statistics/utils"

	"github.com/shopspring/decimal"
)

var _ dao.DaoMethod = (*Store)(nil)

// Store is an in-memory dao.DaoMethod used by tests and dry runs.
type Store struct {
	mu       sync.Mutex
	loc      *time.Location
	sources  []model.PaymentSource
	stats    map[string]model.PaymentDailyStatistic
	jobLogs  map[int64]model.PaymentStatisticsJobLog
	nextID   int64
	nextLog  int64
	sourceID int64
}

// NewStore constructs an empty store. Payment dates are bucketed by day in loc.
func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		loc:     loc,
		stats:   make(map[string]model.PaymentDailyStatistic),
		jobLogs: make(map[int64]model.PaymentStatisticsJobLog),
	}
}

func (s *Store) statKey(businessRegistrationNumber string, paymentDate time.Time) string {
	return businessRegistrationNumber + "|" + utils.FormatDate(utils.DayStart(paymentDate, s.loc))
}

// CreatePaymentSource seeds a raw payment row. Raw rows are owned by the payment
// system, so the gorm dao has no counterpart.
func (s *Store) CreatePaymentSource(ctx context.Context, payload *model.PaymentSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceID++
	payload.ID = s.sourceID
	s.sources = append(s.sources, *payload)
	return nil
}

func (s *Store) FetchDailyPaymentSums(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.AggregatedPaymentSum, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []model.PaymentSource
	for _, src := range s.sources {
		if src.PaymentDateTime.Before(dayStart) || !src.PaymentDateTime.Before(dayEnd) {
			continue
		}
		rows = append(rows, src)
	}
	return FoldPaymentSources(rows, s.loc), nil
}

func (s *Store) FindPaymentDatesUpdatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []time.Time
	for _, src := range s.sources {
		if src.UpdatedAt.Before(from) || !src.UpdatedAt.Before(to) {
			continue
		}
		result = append(result, src.PaymentDateTime)
	}
	return result, nil
}

func (s *Store) FindStatistic(ctx context.Context, businessRegistrationNumber string, paymentDate time.Time) (*model.PaymentDailyStatistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, ok := s.stats[s.statKey(businessRegistrationNumber, paymentDate)]
	if !ok {
		return nil, nil
	}
	return &stat, nil
}

func (s *Store) FindStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) ([]model.PaymentDailyStatistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := utils.FormatDate(utils.DayStart(paymentDate, s.loc))
	var result []model.PaymentDailyStatistic
	for _, stat := range s.stats {
		if utils.FormatDate(stat.PaymentDate) == day {
			result = append(result, stat)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].BusinessRegistrationNumber < result[j].BusinessRegistrationNumber
	})
	return result, nil
}

func (s *Store) CreateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.statKey(payload.BusinessRegistrationNumber, payload.PaymentDate)
	if _, exists := s.stats[key]; exists {
		return fmt.Errorf("failed to create statistic: duplicate key %s", key)
	}
	s.nextID++
	payload.ID = s.nextID
	s.stats[key] = *payload
	return nil
}

func (s *Store) UpdateStatistic(ctx context.Context, payload *model.PaymentDailyStatistic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stat := range s.stats {
		if stat.ID != payload.ID {
			continue
		}
		stat.CorpName = payload.CorpName
		stat.Amount = payload.Amount
		stat.UpdateTime = payload.UpdateTime
		stat.UpdateBy = payload.UpdateBy
		s.stats[key] = stat
		return nil
	}
	return fmt.Errorf("failed to update statistic %d: %w", payload.ID, dao.ErrRecordNotFound)
}

func (s *Store) DeleteStatisticsByPaymentDate(ctx context.Context, paymentDate time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := utils.FormatDate(utils.DayStart(paymentDate, s.loc))
	var deleted int64
	for key, stat := range s.stats {
		if utils.FormatDate(stat.PaymentDate) == day {
			delete(s.stats, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) GetPaymentStatisticsJobLog(ctx context.Context) ([]model.PaymentStatisticsJobLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.PaymentStatisticsJobLog, 0, len(s.jobLogs))
	for _, l := range s.jobLogs {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (s *Store) GetPaymentStatisticsJobLogByStatusList(ctx context.Context, statusList []int) ([]model.PaymentStatisticsJobLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[int]bool, len(statusList))
	for _, st := range statusList {
		wanted[st] = true
	}
	var result []model.PaymentStatisticsJobLog
	for _, l := range s.jobLogs {
		if wanted[l.Status] {
			result = append(result, model.PaymentStatisticsJobLog{ID: l.ID, CreateTime: l.CreateTime})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreateTime == result[j].CreateTime {
			return result[i].ID < result[j].ID
		}
		return result[i].CreateTime < result[j].CreateTime
	})
	return result, nil
}

func (s *Store) GetPaymentStatisticsJobLogByID(ctx context.Context, logID int64) (model.PaymentStatisticsJobLog, error) {
	if err := ctx.Err(); err != nil {
		return model.PaymentStatisticsJobLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.jobLogs[logID]
	if !ok {
		return l, fmt.Errorf("log %d not found: %w", logID, dao.ErrRecordNotFound)
	}
	return l, nil
}

func (s *Store) CreatePaymentStatisticsJobLog(ctx context.Context, payload *model.PaymentStatisticsJobLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLog++
	payload.ID = s.nextLog
	s.jobLogs[payload.ID] = *payload
	return nil
}

func (s *Store) UpdatePaymentStatisticsJobLog(ctx context.Context, logEntry model.PaymentStatisticsJobLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobLogs[logEntry.ID]; !ok {
		return fmt.Errorf("failed to update log %d: %w", logEntry.ID, dao.ErrRecordNotFound)
	}
	s.jobLogs[logEntry.ID] = logEntry
	return nil
}

// FoldPaymentSources groups raw rows by (business id, corp name, day) and sums amounts.
// It yields the same rows as the grouped SUM query in the gorm dao.
func FoldPaymentSources(rows []model.PaymentSource, loc *time.Location) []entity.AggregatedPaymentSum {
	type groupKey struct {
		biz  string
		corp string
		day  string
	}

	index := make(map[groupKey]int)
	var sums []entity.AggregatedPaymentSum
	for _, row := range rows {
		day := utils.DayStart(row.PaymentDateTime, loc)
		k := groupKey{biz: row.BusinessRegistrationNumber, corp: row.CorpName, day: utils.FormatDate(day)}
		if i, ok := index[k]; ok {
			sums[i].TotalAmount = sums[i].TotalAmount.Add(row.Amount)
			continue
		}
		index[k] = len(sums)
		sums = append(sums, entity.AggregatedPaymentSum{
			BusinessRegistrationNumber: row.BusinessRegistrationNumber,
			CorpName:                   row.CorpName,
			PaymentDate:                day,
			TotalAmount:                decimal.Zero.Add(row.Amount),
		})
	}
	return sums
}

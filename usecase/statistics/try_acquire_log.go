package statistics

import (
	"context"
	"strconv"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/consts"
)

func jobLockKey(logID int64) string {
	return "job:" + strconv.FormatInt(logID, 10)
}

// TryAcquireLock picks the oldest pending job log not already held by another worker.
func (u *statisticsUsecase) TryAcquireLock(ctx context.Context) (bool, int64, error) {
	jobLogList, err := u.dao.GetPaymentStatisticsJobLogByStatusList(ctx, []int{consts.StatusInit, consts.StatusRunning})
	if err != nil {
		return false, 0, err
	}

	for _, jobLog := range jobLogList {
		if !u.locker.TryLock(jobLockKey(jobLog.ID)) {
			continue
		}
		log.Infof("[LOCK_PROCESS] log_id:%d", jobLog.ID)
		return true, jobLog.ID, nil
	}

	return false, 0, nil
}

func (u *statisticsUsecase) UnlockProcess(ctx context.Context, logID int64) {
	u.locker.Unlock(jobLockKey(logID))
	log.Infof("[UNLOCK_PROCESS] log_id:%d", logID)
}

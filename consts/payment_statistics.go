package consts

const (
	// Job type payment daily statistics recovery
	JobTypePaymentDailyStatistics = 1

	// Job status codes
	StatusInit     = 1
	StatusRunning  = 2
	StatusFinished = 3
	StatusFailed   = 4

	// Apply operations
	OpValidate = "validate"
	OpLock     = "lock"
	OpFind     = "find"
	OpInsert   = "insert"
	OpUpdate   = "update"

	// Default config
	DefaultBatchSize     = 100
	DefaultWorkerNumber  = 1
	DefaultIntervalInSec = 2
	DefaultMetricsPort   = "9102"

	DateLayout = "2006-01-02"

	SystemOperator = "system"
)

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/consts"
	"github.com/radhian/payment-statistics/infra/db"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/locker"
	usecase "github.com/radhian/payment-statistics/usecase/statistics"
	"github.com/radhian/payment-statistics/utils"
)

// One-shot recovery: aggregate the given days and reconcile them into
// payment_daily_statistics, then exit.
func main() {
	dates := flag.String("dates", "", "comma separated payment dates (YYYY-MM-DD)")
	todayUpdates := flag.Bool("today-updates", false, "recover the payment dates of rows updated today")
	batchSize := flag.Int("batch-size", 0, "items per batch (0 uses config)")
	workers := flag.Int("workers", 0, "parallel workers per batch (0 uses config)")
	configPath := flag.String("config", os.Getenv("PAYMENT_STATISTICS_CONFIG"), "yaml config path")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyLogLevel()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	parsed, err := utils.ParseDates(splitDates(*dates), loc)
	if err != nil {
		log.Fatalf("parse -dates: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	uc := usecase.NewStatisticsUsecase(dao.NewDaoMethod(conn), locker.New(), usecase.Options{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
		Location:  loc,
	})

	days, err := uc.ResolveTargetDates(ctx, usecase.TargetDateRequest{Dates: parsed, TodayUpdates: *todayUpdates})
	if err != nil {
		log.Fatalf("resolve target dates: %v", err)
	}

	result, err := uc.RunRecovery(ctx, usecase.RunParams{
		TargetDates: days,
		BatchSize:   *batchSize,
		Workers:     *workers,
		Operator:    consts.SystemOperator,
	})
	log.Infof("recovered %s: inserted=%d updated=%d unchanged=%d failed=%d",
		strings.Join(utils.FormatDates(days), ","), result.Inserted, result.Updated, result.Unchanged, result.Failed)
	if err != nil {
		stop()
		conn.Close()
		log.Fatalf("recovery finished with errors: %v", err)
	}
}

func splitDates(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/handler"
	"github.com/radhian/payment-statistics/infra/db"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/locker"
	"github.com/radhian/payment-statistics/infra/metrics"
	usecase "github.com/radhian/payment-statistics/usecase/statistics"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
}

func executeOnce(ctx context.Context, h *handler.StatisticsHandler, workerID int) {
	err := h.StatisticsExecution(ctx)
	switch {
	case errors.Is(err, usecase.ErrNoProcessHandled):
		log.Debugf("[Worker %d] no pending job", workerID)
	case err != nil:
		log.Errorf("[Worker %d] error: %s", workerID, err.Error())
	default:
		log.Infof("[Worker %d] success", workerID)
	}
}

func (cfg CronWorkerConfig) startStatisticsExecutorWorker(ctx context.Context, h *handler.StatisticsHandler, workerID int) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		executeOnce(ctx, h, workerID)

		select {
		case <-ctx.Done():
			log.Infof("[Worker %d] stopped", workerID)
			return
		case <-ticker.C:
		}
	}
}

// newStatisticsHandler wires the usecase the workers run. Recovery metrics are
// recorded here, in the process that reconciles.
func newStatisticsHandler(d dao.DaoMethod, l *locker.Locker, cfg config.Config, loc *time.Location) *handler.StatisticsHandler {
	statisticsUc := usecase.NewStatisticsUsecase(d, l, usecase.Options{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
		Location:  loc,
		Observer:  usecase.MultiObserver{usecase.LogObserver{}, usecase.MetricsObserver{}},
	})
	return handler.NewStatisticsHandler(statisticsUc, loc)
}

func newMetricsServer(port string, gatherer prometheus.Gatherer) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type App struct {
	DB     *gorm.DB
	Locker *locker.Locker
	Config config.Config
}

func (a *App) serveMetrics(ctx context.Context) {
	srv := newMetricsServer(a.Config.Cron.MetricsPort, prometheus.DefaultGatherer)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Metrics listening on port %v", a.Config.Cron.MetricsPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %v", err)
	}
}

func (a *App) startCronWorker(ctx context.Context, cfg CronWorkerConfig) error {
	loc, err := a.Config.Location()
	if err != nil {
		return err
	}

	metrics.Init(prometheus.DefaultRegisterer)
	go a.serveMetrics(ctx)

	h := newStatisticsHandler(dao.NewDaoMethod(a.DB), a.Locker, a.Config, loc)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Infof("spawn [Worker %d]", workerID)
			cfg.startStatisticsExecutorWorker(ctx, h, workerID)
		}(i + 1)
	}
	wg.Wait()
	return nil
}

func (a *App) Initialize(cfg config.Config) error {
	var err error
	a.Config = cfg
	a.DB, err = db.Open(cfg.Database)
	if err != nil {
		return err
	}
	a.Locker = locker.New()
	return nil
}

func (a *App) RunServer(ctx context.Context) error {
	return a.startCronWorker(ctx, CronWorkerConfig{
		Workers:  a.Config.Cron.Workers,
		Interval: a.Config.Cron.Interval(),
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("initialize cron server: %v", err)
	}
	defer app.DB.Close()

	if err := app.RunServer(ctx); err != nil {
		log.Fatalf("cron server: %v", err)
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/handler"
	"github.com/radhian/payment-statistics/infra/db"
	"github.com/radhian/payment-statistics/infra/db/dao"
	"github.com/radhian/payment-statistics/infra/locker"
	usecase "github.com/radhian/payment-statistics/usecase/statistics"
)

type App struct {
	DB     *gorm.DB
	Router *mux.Router
	Config config.Config
}

func (a *App) Initialize(cfg config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.Config = cfg
	a.DB, err = db.Open(cfg.Database)
	if err != nil {
		return err
	}

	uc := usecase.NewStatisticsUsecase(dao.NewDaoMethod(a.DB), locker.New(), usecase.Options{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
		Location:  loc,
	})

	a.Router = NewRouter(handler.NewStatisticsHandler(uc, loc))
	return nil
}

func (a *App) RunServer() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Server starting on port %v", a.Config.Port)
	return srv.ListenAndServe()
}

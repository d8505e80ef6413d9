package main

import (
	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/controllers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyLogLevel()

	app := controllers.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("initialize http server: %v", err)
	}
	defer app.DB.Close()

	log.Fatal(app.RunServer())
}

package controllers

import (
	"github.com/gorilla/mux"
	"github.com/radhian/payment-statistics/handler"
	"github.com/radhian/payment-statistics/middlewares"
)

func NewRouter(h *handler.StatisticsHandler) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(middlewares.RequestLogMiddleware)

	api := router.PathPrefix("/payment_statistics").Subrouter()
	api.Use(middlewares.SetContentTypeMiddleware)
	RegisterStatisticsRoutes(api, h)
	return router
}

func RegisterStatisticsRoutes(router *mux.Router, h *handler.StatisticsHandler) {
	router.HandleFunc("/process", h.ProcessStatistics).Methods("POST")
	router.HandleFunc("/result", h.GetResult).Methods("GET")
	router.HandleFunc("/daily", h.GetDailyStatistics).Methods("GET")
	router.HandleFunc("/daily", h.ClearDailyStatistics).Methods("DELETE")
}

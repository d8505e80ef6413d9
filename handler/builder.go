package handler

import (
	"encoding/json"
	"net/http"
	"time"

	usecase "github.com/radhian/payment-statistics/usecase/statistics"
)

type StatisticsHandler struct {
	Usecase  usecase.StatisticsUsecase
	Location *time.Location
}

func NewStatisticsHandler(uc usecase.StatisticsUsecase, loc *time.Location) *StatisticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StatisticsHandler{Usecase: uc, Location: loc}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(APIResponse{
		Status:  "error",
		Message: message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(APIResponse{
		Status: "success",
		Data:   data,
	})
}

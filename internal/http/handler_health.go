package httpapi

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler отвечает 200, пока процесс жив; проверок зависимостей нет.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

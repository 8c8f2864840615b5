package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tmbot/core/log"
	"tmbot/metrics"
)

// OpsHTTPHandler serves liveness and metrics for the bot process
type OpsHTTPHandler struct {
	metrics *metrics.Metrics
}

func NewOpsHTTPHandler(m *metrics.Metrics) *OpsHTTPHandler {
	return &OpsHTTPHandler{metrics: m}
}

func (h *OpsHTTPHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

func (h *OpsHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Error("❌ Failed to write health check response", "error", err)
	}
}

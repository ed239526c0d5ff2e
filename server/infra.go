package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type statusResponse struct {
	Service       string `json:"service"`
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// addInfrastructureEndpoints adds health and status endpoints
func (s *Server) addInfrastructureEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "TrustMonitor Healthy")
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		status := statusResponse{
			Service:       s.logger.ServiceName(),
			Status:        "healthy",
			Version:       s.config.Version,
			UptimeSeconds: int64(time.Since(s.started).Seconds()),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})
}

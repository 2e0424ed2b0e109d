package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mverkerk/rpsbattle/internal/middleware"
	"github.com/mverkerk/rpsbattle/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger  *slog.Logger
	Gateway *ws.Gateway
}

// NewRouter creates the router: a plaintext liveness root, a JSON health
// endpoint and the websocket upgrade path
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.CORS())

	r.HandleFunc("/", livenessHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", cfg.Gateway.HandleConnection)

	return r
}

func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("rpsbattle server is running"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memoriagame/memoria/internal/gateway"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Gateway *gateway.Gateway
}

// NewRouter creates the HTTP router. The real traffic flows over the
// websocket endpoint; the plain HTTP routes exist for liveness probes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", cfg.Gateway.ServeWS).Methods(http.MethodGet)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("memoria game server is running"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

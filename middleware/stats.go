package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/core/appenv"
	"github.com/dmitrymomot/sessionkit/core/monitor"
)

// statsWindow is the aggregation window for the diagnostics endpoint.
const statsWindow = 30 * time.Minute

type statsResponse struct {
	Environment   string         `json:"environment"`
	WindowSeconds int            `json:"window_seconds"`
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	UniqueUsers   int            `json:"unique_users"`
	UniqueDevices int            `json:"unique_devices"`
	Buffered      int            `json:"buffered"`
}

// StatsHandler serves a read-only aggregate of recent auth events. It exposes
// counts only, never tokens or identities, and answers 404 unless diagnostics
// are enabled for the environment.
func StatsHandler(mon *monitor.Monitor, env appenv.Env) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !env.DiagnosticsEnabled() {
			http.NotFound(w, r)
			return
		}

		stats := mon.Stats(statsWindow)
		byType := make(map[string]int, len(stats.ByType))
		for typ, count := range stats.ByType {
			byType[string(typ)] = count
		}

		resp := statsResponse{
			Environment:   envName(env),
			WindowSeconds: int(statsWindow.Seconds()),
			Total:         stats.Total,
			ByType:        byType,
			UniqueUsers:   stats.UniqueUsers,
			UniqueDevices: stats.UniqueDevices,
			Buffered:      mon.Size(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func envName(env appenv.Env) string {
	if env.IsProduction() {
		return appenv.Production
	}
	return appenv.Development
}

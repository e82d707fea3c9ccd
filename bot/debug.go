package bot

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewDebugRouter exposes the runner's published status over HTTP.
func NewDebugRouter(r *Runner) chi.Router {
	router := chi.NewRouter()

	// Middlewares
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		st := r.Status()
		code, status := http.StatusOK, "ok"
		if st.Terminal {
			code, status = http.StatusServiceUnavailable, "down"
		}
		writeJSON(w, code, map[string]any{
			"status":     status,
			"state":      st.State,
			"session_id": st.SessionID,
			"last_error": st.LastError,
		})
	})
	router.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		st := r.Status()
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": st.SessionID,
			"state":      st.State,
			"metrics":    st.Metrics,
			"updated_at": st.UpdatedAt,
		})
	})
	router.Get("/entities", func(w http.ResponseWriter, req *http.Request) {
		st := r.Status()
		writeJSON(w, http.StatusOK, map[string]any{
			"local_id": st.LocalID,
			"count":    len(st.Entities),
			"entities": st.Entities,
		})
	})

	return router
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

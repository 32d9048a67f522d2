package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/teamdesk/activity-service/internal/config"
	"github.com/teamdesk/activity-service/internal/transport/http/handlers"
	actmw "github.com/teamdesk/activity-service/internal/transport/http/middleware"
)

func New(
	h *handlers.ActivitiesHandler,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(actmw.RequestID)
	r.Use(actmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(actmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Check)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)

		r.Route("/{activity_id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/like", h.ToggleLike)
			r.Put("/pin", h.SetPinned)
			r.Post("/reply", h.AddReply)
			r.Delete("/reply/{reply_id}", h.DeleteReply)
		})
	})

	return r
}

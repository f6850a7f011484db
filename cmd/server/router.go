package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/studygraph/internal/api"
	apiMiddleware "github.com/phrazzld/studygraph/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	sessionHandler := api.NewSessionHandler(app.session, app.logger)
	timerHandler := api.NewTimerHandler(app.timer)
	examplesHandler := api.NewExamplesHandler(nil)

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/generate", sessionHandler.Generate)
			r.Post("/flip", sessionHandler.Flip)
			r.Post("/respond", sessionHandler.Respond)
			r.Post("/reset", sessionHandler.Reset)
			r.Post("/connect", sessionHandler.Connect)
		})

		r.Get("/deck", sessionHandler.GetDeck)
		r.Get("/heatmap", sessionHandler.GetHeatmap)

		r.Get("/examples", examplesHandler.List)
		r.Get("/examples/random", examplesHandler.Random)

		r.Route("/timer", func(r chi.Router) {
			r.Get("/", timerHandler.Get)
			r.Post("/start", timerHandler.Start)
			r.Post("/pause", timerHandler.Pause)
			r.Post("/reset", timerHandler.Reset)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", app.metrics.Handler())

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/BMMUGOMBA/terminal-pulse/docs" // swagger docs
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		r.Group(func(r chi.Router) {
			r.Use(mw.Workspace)

			r.Post("/session/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(mw.BearerAuth)

				r.Route("/session", func(r chi.Router) {
					r.Post("/logout", h.Logout)
					r.Get("/me", h.Me)
					r.Patch("/me", h.UpdateMe)
					r.Get("/permissions", h.Permissions)
				})

				r.Route("/terminals", func(r chi.Router) {
					r.Get("/", h.Terminals)
					r.Get("/{id}", h.Terminal)
					r.Patch("/{id}/status", h.ChangeTerminalStatus)
				})

				r.Route("/tickets", func(r chi.Router) {
					r.Get("/", h.Tickets)
					r.Post("/", h.CreateTicket)
					r.Get("/{id}", h.Ticket)
					r.Post("/{id}/assign", h.AssignTicket)
					r.Patch("/{id}/status", h.ChangeTicketStatus)
				})

				r.Route("/alerts", func(r chi.Router) {
					r.Get("/", h.Alerts)
					r.Post("/{id}/acknowledge", h.AcknowledgeAlert)
				})

				r.Get("/metrics", h.Metrics)
				r.Get("/dashboard/summary", h.Summary)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.Users)
					r.Post("/", h.CreateUser)
					r.Patch("/{id}", h.UpdateUser)
					r.Delete("/{id}", h.DeleteUser)
					r.Post("/{id}/unlock", h.UnlockUser)
				})

				r.Post("/admin/reset", h.Reset)
			})
		})
	})

	return mux
}

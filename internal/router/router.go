package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/handler"
	mw "github.com/oakline/partnertrack/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	partnerH *handler.PartnerHandler,
	templateH *handler.TemplateHandler,
	subH *handler.SubmissionHandler,
	dashH *handler.DashboardHandler,
	exportH *handler.ExportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.Metrics)
	r.Use(mw.CORS)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Auth
			r.Get("/auth/me", authH.Me)

			// Dashboard and export
			r.Get("/dashboard", dashH.Dashboard)
			r.Get("/export/partners.csv", exportH.PartnersCSV)

			// Partners and gate transitions
			r.Get("/partners", partnerH.List)
			r.Post("/partners", partnerH.Create)
			r.Get("/partners/{partnerId}", partnerH.Get)
			r.Get("/partners/{partnerId}/metrics", partnerH.Metrics)
			r.Post("/partners/{partnerId}/gates/{gateId}/complete", partnerH.CompleteGate)
			r.Post("/partners/{partnerId}/gates/{gateId}/block", partnerH.BlockGate)
			r.Post("/partners/{partnerId}/gates/{gateId}/start", partnerH.StartGate)
			r.Get("/partners/{partnerId}/gates/{gateId}/progression", partnerH.Progression)
			r.Get("/partners/{partnerId}/gates/{gateId}/blockers", partnerH.Blockers)

			// Submissions
			r.Get("/partners/{partnerId}/submissions", subH.List)
			r.Post("/partners/{partnerId}/submissions", subH.Create)
			r.Get("/partners/{partnerId}/submissions/{subId}", subH.Get)
			r.Put("/partners/{partnerId}/submissions/{subId}", subH.Update)
			r.Get("/partners/{partnerId}/submissions/{subId}/form", subH.Form)

			// Questionnaire templates
			r.Get("/templates/{templateId}", templateH.Get)
			r.Put("/templates/{templateId}", templateH.Save)
			r.Post("/templates/{templateId}/validate", templateH.Validate)
			r.Get("/templates/{templateId}/preview", templateH.Preview)
			r.Get("/templates/{templateId}/versions", templateH.ListVersions)
			r.Get("/templates/{templateId}/versions/{version}", templateH.GetVersion)
		})
	})

	return r
}

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/gatedlife/community-server/internal/auth"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
		r.Post("/refresh", s.HandleRefresh)
	})

	// Resident routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.requireTypes(auth.PrincipalResident))

		r.Route("/me", func(r chi.Router) {
			r.Get("/apartments", s.HandleListMyApartments)
			r.Get("/current-apartment", s.HandleGetCurrentApartment)
			r.Put("/current-apartment", s.HandleSwitchApartment)
			r.Get("/apartment-requests", s.HandleListMyRequests)
		})

		r.Post("/apartment-requests", s.HandleSubmitRequest)

		r.Route("/rent-sessions", func(r chi.Router) {
			r.Post("/", s.HandleCreateSession)
			r.Get("/", s.HandleListMySessions)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/terminate", s.HandleTerminateSession)
				r.Post("/documents", s.HandleUploadDocument)
				r.Get("/replacements", s.HandleListReplacements)
				r.Post("/replacements", s.HandleCreateReplacement)
			})
		})

		r.Route("/documents/{id}", func(r chi.Router) {
			r.Post("/review", s.HandleReviewDocument)
		})

		r.Route("/apartments/{id}", func(r chi.Router) {
			r.Get("/rooms", s.HandleListRooms)
			r.Post("/rooms", s.HandleCreateRoom)
		})

		r.Route("/rooms/{id}", func(r chi.Router) {
			r.Post("/review", s.HandleReviewRoom)
			r.Get("/accessories", s.HandleListAccessories)
			r.Post("/accessories", s.HandleCreateAccessory)
		})

		r.Post("/accessories/{id}/review", s.HandleReviewAccessory)
		r.Post("/replacements/{id}/review", s.HandleReviewReplacement)

		r.Post("/rent-sessions/{id}/disputes", s.HandleCreateDispute)

		r.Route("/disputes/{id}", func(r chi.Router) {
			r.Post("/escalate", s.HandleEscalateDispute)
		})
	})

	// Routes shared by residents and admins
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.requireTypes(auth.PrincipalResident, auth.PrincipalAdmin))

		r.Get("/apartment-requests/{id}", s.HandleGetRequest)
		r.Get("/apartments/{id}/rent-sessions", s.HandleListApartmentSessions)
		r.Get("/rent-sessions/{id}", s.HandleGetSession)
		r.Get("/rent-sessions/{id}/documents", s.HandleListDocuments)
		r.Get("/rent-sessions/{id}/disputes", s.HandleListDisputes)
		r.Get("/disputes/{id}", s.HandleGetDispute)
		r.Post("/disputes/{id}/messages", s.HandlePostDisputeMessage)
		r.Post("/disputes/{id}/approvals", s.HandleApproveDispute)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.requireTypes(auth.PrincipalAdmin))

		r.Get("/apartment-requests", s.HandleListRequests)
		r.Post("/apartment-requests/{id}/review", s.HandleReviewRequest)
	})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the administrative routes and middleware stack.
// Tenant routes require an account identity; /internal routes are reserved
// for platform operators and bypass tenant scoping where noted.
func NewRouter(handler *Handler, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(accountMiddleware)

		r.Route("/endpoints", func(r chi.Router) {
			r.Get("/", handler.listEndpoints)
			r.Post("/", handler.createEndpoint)

			r.Route("/email/subscription", func(r chi.Router) {
				r.Get("/", handler.listSubscriptions)
				r.Put("/{bundle}/{application}/{type}", handler.subscribe)
				r.Get("/{bundle}/{application}/{type}", handler.getSubscription)
				r.Delete("/{bundle}/{application}/{type}", handler.unsubscribe)
			})

			r.Route("/{endpoint_id}", func(r chi.Router) {
				r.Get("/", handler.getEndpoint)
				r.Put("/", handler.updateEndpoint)
				r.Delete("/", handler.deleteEndpoint)
				r.Put("/enable", handler.enableEndpoint)
				r.Delete("/enable", handler.disableEndpoint)
				r.Get("/history", handler.endpointHistory)
			})
		})

		r.Route("/defaults", func(r chi.Router) {
			r.Get("/", handler.listDefaults)
			r.Put("/{endpoint_id}", handler.addToDefaults)
			r.Delete("/{endpoint_id}", handler.removeFromDefaults)
		})

		r.Route("/eventtypes/{event_type_id}", func(r chi.Router) {
			r.Get("/endpoints", handler.linkedEndpoints)
			r.Put("/endpoints/{endpoint_id}", handler.linkEndpoint)
			r.Delete("/endpoints/{endpoint_id}", handler.unlinkEndpoint)
			r.Get("/behaviorGroups", handler.behaviorGroupsByEventType)
			r.Put("/behaviorGroups/{group_id}", handler.addEventTypeBehavior)
			r.Delete("/behaviorGroups/{group_id}", handler.deleteEventTypeBehavior)
			r.Put("/mute", handler.muteEventType)
		})

		r.Route("/behaviorGroups", func(r chi.Router) {
			r.Post("/", handler.createBehaviorGroup)
			r.Route("/{group_id}", func(r chi.Router) {
				r.Put("/", handler.updateBehaviorGroup)
				r.Delete("/", handler.deleteBehaviorGroup)
				r.Get("/eventtypes", handler.eventTypesByBehaviorGroup)
				r.Put("/actions/{endpoint_id}", handler.addBehaviorGroupAction)
				r.Delete("/actions/{endpoint_id}", handler.deleteBehaviorGroupAction)
			})
		})

		r.Get("/bundles/{bundle_id}/behaviorGroups", handler.listBehaviorGroupsByBundle)
	})

	r.Route("/internal", func(r chi.Router) {
		r.Route("/bundles", func(r chi.Router) {
			r.Get("/", handler.listBundles)
			r.Post("/", handler.createBundle)
			r.Get("/{bundle_id}", handler.getBundle)
			r.Delete("/{bundle_id}", handler.deleteBundle)
			r.Get("/{bundle_id}/applications", handler.listApplications)
			r.Put("/{bundle_id}/behaviorGroups/{group_id}/default", handler.setDefaultBehaviorGroup)
		})
		r.Post("/applications", handler.createApplication)
		r.Delete("/applications/{application_id}", handler.deleteApplication)
		r.Get("/applications/{application_id}/eventTypes", handler.listEventTypes)
		r.Post("/eventTypes", handler.createEventType)
		r.Delete("/eventTypes/{event_type_id}", handler.deleteEventType)
	})

	return r
}

package router

import (
	"sporti/internal/handlers/auth"
	"sporti/internal/handlers/booking"
	"sporti/internal/handlers/facility"
	"sporti/internal/handlers/member"
	"sporti/internal/handlers/room"
	"sporti/internal/handlers/site"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Member   member.Handler
	Room     room.Handler
	Facility facility.Handler
	Booking  booking.Handler
	Site     site.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Member.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Facility.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Site.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

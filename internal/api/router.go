package api

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fernside/pawbase/internal/auth"
	"github.com/fernside/pawbase/internal/blog"
	"github.com/fernside/pawbase/internal/booking"
	"github.com/fernside/pawbase/internal/content"
)

// NewRouter creates a chi router with all API routes mounted. The auth
// middleware resolves the caller's state once per request; only blog
// mutations require the admin grant.
func NewRouter(repo *blog.Repository, authSvc *auth.Service, bookings *booking.Service, site *content.Store) chi.Router {
	bh := NewBlogHandler(repo)
	ah := NewAuthHandler(authSvc)
	sh := NewSiteHandler(site, bookings)

	r := chi.NewRouter()
	r.Use(WithAuth(authSvc))

	// Session.
	loginLimiter := newRateLimiter(5, time.Minute)
	r.With(loginLimiter.Limit).Post("/auth/login", ah.Login)
	r.Post("/auth/logout", ah.Logout)
	r.Get("/auth/me", ah.Me)

	// Blog: public reads, admin-gated mutations.
	r.Get("/blog", bh.List)
	r.Get("/blog/{slug}", bh.Get)
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Post("/blog", bh.Create)
		r.Put("/blog/{slug}", bh.Update)
		r.Delete("/blog/{slug}", bh.Delete)
	})

	// Marketing-site content.
	r.Get("/content", sh.Content)
	r.Get("/content/{section}", sh.ContentSection)

	// Open-day booking.
	bookingLimiter := newRateLimiter(10, time.Minute)
	r.Get("/open-day/slots", sh.Slots)
	r.With(bookingLimiter.Limit).Post("/open-day/bookings", sh.Book)

	return r
}

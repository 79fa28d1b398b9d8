package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/campusgate/internal/http/middlewares"
)

// registerAuthRoutes registra el dominio de autenticación.
// register/login son públicos y pasan por el rate limiter; logout/me
// requieren un token válido.
func registerAuthRoutes(r chi.Router, deps Deps) {
	c := deps.Auth
	if c == nil {
		return
	}

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(asChi(mw.WithRateLimit(deps.LoginLimiter)))
			r.Post("/register", c.Register)
			r.Post("/login", c.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(asChi(mw.Authenticate(deps.Issuer)))
			r.Post("/logout", c.Logout)
			r.Get("/me", c.Me)
		})
	})
}

package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/campusgate/internal/http/middlewares"
	"github.com/dropDatabas3/campusgate/internal/roles"
)

// registerAdminRoutes registra el dominio de administración.
//
// Todo /admin exige SuperAdmin salvo /admin/impersonate/restore: durante una
// impersonación el principal activo puede no ser admin, así que restore solo
// exige token válido y el claim imp se valida en el service.
func registerAdminRoutes(r chi.Router, deps Deps) {
	c := deps.Admin
	if c == nil {
		return
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(asChi(mw.Authenticate(deps.Issuer)))

		r.Post("/impersonate/restore", c.Restore)

		r.Group(func(r chi.Router) {
			r.Use(asChi(mw.RequireRole(roles.SuperAdmin)))

			r.Get("/users", c.ListUsers)
			r.Post("/roles/{userId}", c.UpdateRole)
			r.Post("/extra-roles/{userId}", c.SetExtraRoles)
			r.Post("/lock/{userId}", c.Lock)
			r.Post("/unlock/{userId}", c.Unlock)
			r.Post("/impersonate", c.Impersonate)
		})
	})
}

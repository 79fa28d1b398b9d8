// Package router arma el árbol de rutas HTTP completo.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/auth"
	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	mw "github.com/dropDatabas3/campusgate/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/rate"
	"github.com/dropDatabas3/campusgate/internal/store"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Auth  *authctrl.Controllers
	Admin *adminctrl.Controllers

	Issuer *jwtx.Issuer
	Repo   store.Repository

	// LoginLimiter aplica solo a register/login. nil lo deshabilita.
	LoginLimiter rate.Limiter

	// Registry para exponer /metrics. nil usa el registry default.
	Registry *prometheus.Registry
}

// New construye el handler raíz con middlewares globales y rutas por dominio.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(asChi(mw.WithRecover()))
	r.Use(asChi(mw.WithRequestLogging()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerAuthRoutes(r, deps)
	registerAdminRoutes(r, deps)
	registerHealthRoutes(r, deps)

	return r
}

// asChi adapta nuestro tipo Middleware al que espera chi.
func asChi(m mw.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return m(next) }
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

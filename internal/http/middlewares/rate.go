package middlewares

import (
	"fmt"
	"net/http"

	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/rate"
)

// WithRateLimit limita por IP usando el limiter dado. nil desactiva el límite.
// Se aplica sobre /auth/login y /auth/register, donde el costo de un intento
// (lookup + verificación de secreto) invita a fuerza bruta.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), ClientIP(r))
			if err != nil {
				// backend caído: dejamos pasar, ya logueado por el limiter
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())+1))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain compone middlewares en orden: el primero de la lista es el más externo.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

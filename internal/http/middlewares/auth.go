package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/metrics"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
)

// =================================================================================
// IDENTITY RESOLVER
// =================================================================================

// Authenticate extrae el bearer token, lo valida contra el issuer y adjunta
// las claims al contexto. Es la ÚNICA fuente de verdad de identidad y rol:
// ningún handler lee roles de headers ni de bodies.
//
// Sin token / token inválido / expirado => 401, siempre indistinguibles.
// No toca el store ni tiene efectos más allá del contexto.
func Authenticate(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				reject(w, r, "token missing")
				return
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				reject(w, r, "token invalid or expired")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extrae el token del header Authorization.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(w http.ResponseWriter, r *http.Request, detail string) {
	metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
	logger.From(r.Context()).Debug("request rejected",
		logger.Component("middlewares.auth"),
		logger.Path(r.URL.Path),
		logger.String("reason", detail),
	)
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	httperrors.WriteError(w, httperrors.ErrUnauthenticated.WithDetail(detail))
}

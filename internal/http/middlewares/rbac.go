package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/campusgate/internal/audit"
	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	"github.com/dropDatabas3/campusgate/internal/metrics"
	"github.com/dropDatabas3/campusgate/internal/roles"
)

// =================================================================================
// RBAC MIDDLEWARES
// =================================================================================

// RequireRole exige el rol dado. Equivale a RequireAnyRole con un solo rol.
func RequireRole(role roles.Role) Middleware {
	return RequireAnyRole(role)
}

// RequireAnyRole permite el request si el caller tiene alguno de los roles
// requeridos, ya sea como rol primario o dentro de extraRoles.
//
// Regla de bypass universal: el rol de mayor rango (SuperAdmin como rol
// PRIMARIO) pasa cualquier check. Es el único bypass hard-coded del sistema.
// Decisión pura sobre el contexto: sin efectos, sin acceso al store.
func RequireAnyRole(required ...roles.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthenticated.WithDetail("token invalid or missing"))
				return
			}

			if allowed(cl.Role, cl.ExtraRoles, required) {
				next.ServeHTTP(w, r)
				return
			}

			metrics.AuthzDenialsTotal.WithLabelValues("forbidden").Inc()
			audit.Denied(r.Context(), "forbidden", cl.ID, roles.Strings(required))
			httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("insufficient role"))
		})
	}
}

// allowed implementa la decisión: bypass del rol top, después match exacto
// (post-normalización, que ya ocurrió al parsear el token) contra el rol
// primario o cualquier extraRole.
func allowed(primary roles.Role, extra []roles.Role, required []roles.Role) bool {
	if roles.IsTop(primary) {
		return true
	}
	for _, req := range required {
		if primary == req {
			return true
		}
		for _, er := range extra {
			if er == req {
				return true
			}
		}
	}
	return false
}

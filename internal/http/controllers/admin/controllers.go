// Package admin contiene los controllers de administración de principals.
// Todas las rutas de este dominio pasan antes por el guard de SuperAdmin.
package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/campusgate/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	"github.com/dropDatabas3/campusgate/internal/http/helpers"
	mw "github.com/dropDatabas3/campusgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/campusgate/internal/http/services/admin"
)

type Controllers struct {
	services svc.Services
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{services: s}
}

// UpdateRole maneja POST /admin/roles/{userId}
func (c *Controllers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var in dto.UpdateRoleRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	out, err := c.services.Users.UpdateRole(r.Context(), userID, in.Role)
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// SetExtraRoles maneja POST /admin/extra-roles/{userId}
func (c *Controllers) SetExtraRoles(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var in dto.ExtraRolesRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	out, err := c.services.Users.SetExtraRoles(r.Context(), userID, in.ExtraRoles)
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Lock maneja POST /admin/lock/{userId}
func (c *Controllers) Lock(w http.ResponseWriter, r *http.Request) {
	c.setLocked(w, r, true)
}

// Unlock maneja POST /admin/unlock/{userId}
func (c *Controllers) Unlock(w http.ResponseWriter, r *http.Request) {
	c.setLocked(w, r, false)
}

func (c *Controllers) setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	userID := chi.URLParam(r, "userId")
	out, err := c.services.Users.SetLocked(r.Context(), userID, locked)
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// ListUsers maneja GET /admin/users
func (c *Controllers) ListUsers(w http.ResponseWriter, r *http.Request) {
	out, err := c.services.Users.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Impersonate maneja POST /admin/impersonate
func (c *Controllers) Impersonate(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}
	var in dto.ImpersonateRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}
	if in.UserID == "" {
		httperrors.WriteError(w, httperrors.ErrInvalidInput.WithDetail("userId es requerido"))
		return
	}

	out, err := c.services.Impersonation.Impersonate(r.Context(), claims, in.UserID)
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Restore maneja POST /admin/impersonate/restore
func (c *Controllers) Restore(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	out, err := c.services.Impersonation.Restore(r.Context(), claims)
	if err != nil {
		httperrors.WriteError(w, mapAdminErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// mapAdminErr traduce sentinelas del service a la taxonomía HTTP.
func mapAdminErr(err error) error {
	switch {
	case errors.Is(err, svc.ErrInvalidRole):
		return httperrors.ErrInvalidInput.WithDetail("rol desconocido")
	case errors.Is(err, svc.ErrUserNotFound):
		return httperrors.ErrUserNotFound
	case errors.Is(err, svc.ErrNotSuperAdmin):
		return httperrors.ErrForbidden.WithDetail("se requiere SuperAdmin")
	case errors.Is(err, svc.ErrNotImpersonating):
		return httperrors.ErrNotImpersonating
	case errors.Is(err, svc.ErrAlreadyImpersonating):
		return httperrors.ErrAlreadyImpersonating
	case errors.Is(err, svc.ErrStoreUnavailable):
		return httperrors.ErrUpstreamTimeout
	default:
		return httperrors.ErrInternal.WithCause(err)
	}
}

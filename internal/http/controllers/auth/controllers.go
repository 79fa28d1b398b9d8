// Package auth contiene los controllers de registro, login y sesión.
// Son deliberadamente finos: parsean, delegan al service y mapean errores.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/campusgate/internal/http/errors"
	"github.com/dropDatabas3/campusgate/internal/http/helpers"
	mw "github.com/dropDatabas3/campusgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/campusgate/internal/http/services/auth"
)

type Controllers struct {
	services svc.Services
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{services: s}
}

// Register maneja POST /auth/register
func (c *Controllers) Register(w http.ResponseWriter, r *http.Request) {
	var in dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	out, err := c.services.Register.Register(r.Context(), in)
	if err != nil {
		httperrors.WriteError(w, mapAuthErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, out)
}

// Login maneja POST /auth/login
func (c *Controllers) Login(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	out, err := c.services.Login.Login(r.Context(), in)
	if err != nil {
		httperrors.WriteError(w, mapAuthErr(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Logout maneja POST /auth/logout (autenticado). Responde 200 siempre.
func (c *Controllers) Logout(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}
	c.services.Session.Logout(r.Context(), claims)
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me maneja GET /auth/me (autenticado).
func (c *Controllers) Me(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r.Context())
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}
	out, err := c.services.Session.Me(r.Context(), claims)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// mapAuthErr traduce sentinelas del service a la taxonomía HTTP.
func mapAuthErr(err error) error {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrInvalidInput.WithDetail("email y secret son requeridos")
	case errors.Is(err, svc.ErrInvalidEmail):
		return httperrors.ErrInvalidInput.WithDetail("email inválido")
	case errors.Is(err, svc.ErrWeakSecret):
		return httperrors.ErrInvalidInput.WithDetail("el secreto debe tener al menos 6 caracteres")
	case errors.Is(err, svc.ErrEmailTaken):
		return httperrors.ErrEmailAlreadyInUse
	case errors.Is(err, svc.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, svc.ErrStoreUnavailable):
		return httperrors.ErrUpstreamTimeout
	default:
		return httperrors.ErrInternal.WithCause(err)
	}
}

// Package dto define los requests/responses del dominio auth.
package dto

import (
	"time"

	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

type RegisterRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// Principal es la proyección pública de un principal. Nunca incluye el secreto.
type Principal struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	ExtraRoles     []string `json:"extraRoles,omitempty"`
	Locked         bool     `json:"locked,omitempty"`
	ImpersonatedBy string   `json:"impersonatedBy,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
}

// FromPrincipal proyecta un registro del store al DTO público.
func FromPrincipal(p *store.Principal) Principal {
	return Principal{
		ID:         p.ID,
		Email:      p.Email,
		Role:       string(p.Role),
		ExtraRoles: roles.Strings(p.ExtraRoles),
		Locked:     p.Locked,
	}
}

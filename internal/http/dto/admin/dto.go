// Package dto define los requests/responses del dominio admin.
package dto

import (
	"time"

	authdto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
)

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type ExtraRolesRequest struct {
	ExtraRoles []string `json:"extraRoles"`
}

type ImpersonateRequest struct {
	UserID string `json:"userId"`
}

// TokenResponse es la respuesta de impersonate/restore: un token nuevo que
// reemplaza al anterior en el cliente.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UpdatedUserResponse struct {
	User authdto.Principal `json:"user"`
}

type ListUsersResponse struct {
	Users []authdto.Principal `json:"users"`
}

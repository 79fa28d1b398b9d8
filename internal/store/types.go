package store

import (
	"time"

	"github.com/dropDatabas3/campusgate/internal/roles"
)

// Principal es el registro de identidad que posee el credential store.
// SecretHash nunca sale hacia el cliente (los DTOs hacen la proyección).
type Principal struct {
	ID         string
	Email      string // lookup key, siempre en minúsculas
	SecretHash string // PHC argon2id o texto oscurecido legado
	Role       roles.Role
	ExtraRoles []roles.Role
	Locked     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone devuelve una copia profunda. Los adapters en memoria devuelven copias
// para que los callers no puedan mutar el registro almacenado.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	cp := *p
	if p.ExtraRoles != nil {
		cp.ExtraRoles = append([]roles.Role(nil), p.ExtraRoles...)
	}
	return &cp
}

// HasRole indica si el principal tiene el rol como primario o extra.
// No aplica la regla de bypass: eso es responsabilidad del guard.
func (p *Principal) HasRole(r roles.Role) bool {
	if p.Role == r {
		return true
	}
	for _, er := range p.ExtraRoles {
		if er == r {
			return true
		}
	}
	return false
}

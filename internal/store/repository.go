// Package store define el contrato del credential store y sus tipos.
//
// El resto del dominio (enrollment, grades, eventos) vive en otro servicio;
// este core solo necesita el registro de identidad con rol mutable.
package store

import (
	"context"

	"github.com/dropDatabas3/campusgate/internal/roles"
)

// Repository es el contrato que el core de autorización consume.
// Todas las llamadas están acotadas por el contexto (timeout por request);
// implementaciones remotas deben traducir timeouts a ErrUnavailable.
type Repository interface {
	Ping(ctx context.Context) error

	FindByEmail(ctx context.Context, email string) (*Principal, error)
	FindByID(ctx context.Context, id string) (*Principal, error)

	// Create falla con ErrConflict si el email ya existe. La unicidad debe ser
	// atómica: dos registros concurrentes del mismo email producen exactamente
	// un éxito.
	Create(ctx context.Context, p *Principal) error

	UpdateRole(ctx context.Context, id string, role roles.Role) (*Principal, error)
	SetExtraRoles(ctx context.Context, id string, extra []roles.Role) (*Principal, error)
	SetLocked(ctx context.Context, id string, locked bool) (*Principal, error)

	List(ctx context.Context) ([]*Principal, error)
}

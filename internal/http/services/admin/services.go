// Package admin contiene la lógica de administración de principals:
// cambio de rol, extra roles, lock/unlock, listado e impersonación.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	admindto "github.com/dropDatabas3/campusgate/internal/http/dto/admin"
	authdto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/store"
)

// Errores sentinela del dominio admin.
var (
	ErrInvalidRole          = fmt.Errorf("unknown role")
	ErrUserNotFound         = fmt.Errorf("user not found")
	ErrNotSuperAdmin        = fmt.Errorf("caller is not superadmin")
	ErrNotImpersonating     = fmt.Errorf("no active impersonation")
	ErrAlreadyImpersonating = fmt.Errorf("impersonation already active")
	ErrStoreUnavailable     = fmt.Errorf("credential store unavailable")
)

type UsersService interface {
	UpdateRole(ctx context.Context, targetID, role string) (*admindto.UpdatedUserResponse, error)
	SetExtraRoles(ctx context.Context, targetID string, extra []string) (*admindto.UpdatedUserResponse, error)
	SetLocked(ctx context.Context, targetID string, locked bool) (*admindto.UpdatedUserResponse, error)
	List(ctx context.Context) (*admindto.ListUsersResponse, error)
}

type ImpersonationService interface {
	Impersonate(ctx context.Context, caller *jwtx.Claims, targetID string) (*admindto.TokenResponse, error)
	Restore(ctx context.Context, caller *jwtx.Claims) (*admindto.TokenResponse, error)
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Users         UsersService
	Impersonation ImpersonationService
}

type Deps struct {
	Repo         store.Repository
	Issuer       *jwtx.Issuer
	StoreTimeout time.Duration
}

func NewServices(deps Deps) Services {
	if deps.StoreTimeout <= 0 {
		deps.StoreTimeout = 5 * time.Second
	}
	return Services{
		Users:         &usersService{deps: deps},
		Impersonation: &impersonationService{deps: deps},
	}
}

func (d Deps) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.StoreTimeout)
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return ErrStoreUnavailable
	default:
		return err
	}
}

func updated(p *store.Principal) *admindto.UpdatedUserResponse {
	return &admindto.UpdatedUserResponse{User: authdto.FromPrincipal(p)}
}

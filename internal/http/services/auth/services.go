// Package auth contiene la lógica de negocio de registro, login y sesión.
//
// Los services retornan errores sentinela; los controllers los mapean a la
// taxonomía HTTP. Ningún error de acá expone detalles internos al cliente.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	dto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/store"
)

// Errores sentinela del dominio auth.
var (
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrInvalidEmail  = fmt.Errorf("invalid email")
	ErrWeakSecret    = fmt.Errorf("secret too short")
	ErrEmailTaken    = fmt.Errorf("email already registered")
	// ErrInvalidCredentials cubre email inexistente, secreto incorrecto Y
	// cuenta bloqueada: las tres fallas son indistinguibles para el cliente.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrStoreUnavailable   = fmt.Errorf("credential store unavailable")
)

type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)
}

type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
}

type SessionService interface {
	Me(ctx context.Context, claims *jwtx.Claims) (*dto.Principal, error)
	Logout(ctx context.Context, claims *jwtx.Claims)
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Register RegisterService
	Login    LoginService
	Session  SessionService
}

// Deps contiene las dependencias compartidas del dominio auth.
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
		Register: &registerService{deps: deps},
		Login:    &loginService{deps: deps},
		Session:  &sessionService{},
	}
}

// storeCtx acota toda llamada al store: un store caído responde 503, no cuelga.
func (d Deps) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.StoreTimeout)
}

// mapStoreErr traduce fallas de disponibilidad del store al sentinel retryable.
func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}
	return err
}

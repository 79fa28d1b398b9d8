package auth

import (
	"context"

	"github.com/dropDatabas3/campusgate/internal/audit"
	dto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/roles"
)

type sessionService struct{}

// Me proyecta las claims del token. No toca el store: lo que el token dice es
// lo que vale hasta su expiración (staleness acotada por el TTL).
func (s *sessionService) Me(_ context.Context, claims *jwtx.Claims) (*dto.Principal, error) {
	return &dto.Principal{
		ID:             claims.ID,
		Email:          claims.Email,
		Role:           string(claims.Role),
		ExtraRoles:     roles.Strings(claims.ExtraRoles),
		ImpersonatedBy: claims.ImpersonatedBy,
	}, nil
}

// Logout es advisory con tokens stateless: el server no puede invalidar un
// token ya emitido. Queda el evento de auditoría y el cliente descarta el suyo.
func (s *sessionService) Logout(ctx context.Context, claims *jwtx.Claims) {
	audit.Event(ctx, "session.logout", logger.UserID(claims.ID))
}

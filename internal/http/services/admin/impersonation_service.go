package admin

import (
	"context"

	"github.com/dropDatabas3/campusgate/internal/audit"
	admindto "github.com/dropDatabas3/campusgate/internal/http/dto/admin"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/metrics"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/roles"
)

type impersonationService struct {
	deps Deps
}

// Impersonate emite un token para el target con la claim "imp" apuntando al
// SuperAdmin original. El chequeo de rol es sobre el rol PRIMARIO: un extra
// role SuperAdmin no habilita impersonar, y una impersonación activa tampoco
// (hay que restaurar primero; sin anidamiento, la vuelta es siempre un salto).
func (s *impersonationService) Impersonate(ctx context.Context, caller *jwtx.Claims, targetID string) (*admindto.TokenResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.impersonation"),
	)

	if !roles.IsTop(caller.Role) {
		audit.Denied(ctx, "impersonate", caller.ID, []string{string(roles.SuperAdmin)})
		return nil, ErrNotSuperAdmin
	}
	if caller.IsImpersonated() {
		return nil, ErrAlreadyImpersonating
	}

	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	target, err := s.deps.Repo.FindByID(sctx, targetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	token, exp, err := s.deps.Issuer.Issue(target, caller.ID)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, err
	}

	metrics.ImpersonationsTotal.WithLabelValues("start").Inc()
	metrics.TokensIssuedTotal.Inc()
	audit.Impersonation(ctx, "start", caller.ID, target.ID)

	return &admindto.TokenResponse{Token: token, ExpiresAt: exp}, nil
}

// Restore vuelve a la identidad original registrada en la claim "imp".
// El rol del original se relee del store (no de la claim vieja): si el
// SuperAdmin fue degradado durante la impersonación, el token restaurado
// refleja el rol actual. Sin impersonación activa => estado inválido (409).
func (s *impersonationService) Restore(ctx context.Context, caller *jwtx.Claims) (*admindto.TokenResponse, error) {
	if !caller.IsImpersonated() {
		return nil, ErrNotImpersonating
	}

	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	original, err := s.deps.Repo.FindByID(sctx, caller.ImpersonatedBy)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	// El token nuevo no lleva "imp": no queda ningún resto de la identidad
	// impersonada.
	token, exp, err := s.deps.Issuer.Issue(original, "")
	if err != nil {
		return nil, err
	}

	metrics.ImpersonationsTotal.WithLabelValues("restore").Inc()
	metrics.TokensIssuedTotal.Inc()
	audit.Impersonation(ctx, "restore", original.ID, caller.ID)

	return &admindto.TokenResponse{Token: token, ExpiresAt: exp}, nil
}

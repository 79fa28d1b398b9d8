package admin

import (
	"context"

	"github.com/dropDatabas3/campusgate/internal/audit"
	admindto "github.com/dropDatabas3/campusgate/internal/http/dto/admin"
	authdto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/roles"
)

type usersService struct {
	deps Deps
}

func (s *usersService) UpdateRole(ctx context.Context, targetID, role string) (*admindto.UpdatedUserResponse, error) {
	r, ok := roles.Normalize(role)
	if !ok {
		// Roles desconocidos se rechazan: nunca entran a la base valores
		// fuera de la enumeración canónica.
		return nil, ErrInvalidRole
	}

	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	p, err := s.deps.Repo.UpdateRole(sctx, targetID, r)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	audit.Event(ctx, "admin.role_updated",
		logger.UserID(targetID),
		logger.Role(string(r)),
	)
	return updated(p), nil
}

func (s *usersService) SetExtraRoles(ctx context.Context, targetID string, extra []string) (*admindto.UpdatedUserResponse, error) {
	// Validación estricta: un typo en un extra role es un error, no un descarte
	// silencioso.
	norm := make([]roles.Role, 0, len(extra))
	for _, in := range extra {
		r, ok := roles.Normalize(in)
		if !ok {
			return nil, ErrInvalidRole
		}
		norm = append(norm, r)
	}
	norm = roles.NormalizeAll(roles.Strings(norm)) // dedup

	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	p, err := s.deps.Repo.SetExtraRoles(sctx, targetID, norm)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	audit.Event(ctx, "admin.extra_roles_updated",
		logger.UserID(targetID),
		logger.ExtraRoles(roles.Strings(norm)),
	)
	return updated(p), nil
}

func (s *usersService) SetLocked(ctx context.Context, targetID string, locked bool) (*admindto.UpdatedUserResponse, error) {
	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	p, err := s.deps.Repo.SetLocked(sctx, targetID, locked)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	event := "admin.user_locked"
	if !locked {
		event = "admin.user_unlocked"
	}
	audit.Event(ctx, event, logger.UserID(targetID))
	return updated(p), nil
}

func (s *usersService) List(ctx context.Context) (*admindto.ListUsersResponse, error) {
	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	all, err := s.deps.Repo.List(sctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]authdto.Principal, 0, len(all))
	for _, p := range all {
		out = append(out, authdto.FromPrincipal(p))
	}
	return &admindto.ListUsersResponse{Users: out}, nil
}

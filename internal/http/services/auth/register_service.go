package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	dto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/security/password"
	"github.com/dropDatabas3/campusgate/internal/store"
)

const minSecretLen = 6

type registerService struct {
	deps Deps
}

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Email == "" || in.Secret == "" {
		return nil, ErrMissingFields
	}
	if !strings.Contains(in.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(in.Secret) < minSecretLen {
		return nil, ErrWeakSecret
	}

	hash, err := password.Hash(password.Default, in.Secret)
	if err != nil {
		return nil, err
	}

	p := &store.Principal{
		ID:         uuid.NewString(),
		Email:      in.Email,
		SecretHash: hash,
		Role:       roles.User, // default
		ExtraRoles: nil,
	}

	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	if err := s.deps.Repo.Create(sctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Debug("email already registered", logger.Email(in.Email))
			return nil, ErrEmailTaken
		}
		log.Error("create principal failed", logger.Err(err))
		return nil, mapStoreErr(err)
	}

	log.Info("principal registered", logger.UserID(p.ID))
	return &dto.RegisterResponse{ID: p.ID}, nil
}

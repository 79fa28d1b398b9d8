package auth

import (
	"context"
	"errors"
	"strings"

	dto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	"github.com/dropDatabas3/campusgate/internal/metrics"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/security/password"
	"github.com/dropDatabas3/campusgate/internal/store"
)

type loginService struct {
	deps Deps
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
	)

	// Paso 0: Normalización
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Secret == "" {
		return nil, ErrMissingFields
	}

	// Paso 1: Buscar principal
	sctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	p, err := s.deps.Repo.FindByEmail(sctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			log.Debug("principal not found")
			return nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		log.Error("lookup failed", logger.Err(err))
		return nil, mapStoreErr(err)
	}

	log = log.With(logger.UserID(p.ID))

	// Paso 2: Cuenta bloqueada. Se loguea distinto server-side pero la
	// respuesta es EXACTAMENTE la de credenciales inválidas.
	if p.Locked {
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		log.Info("login rejected: account locked")
		return nil, ErrInvalidCredentials
	}

	// Paso 3: Verificar secreto (argon2id o formato legado)
	if !password.VerifySecret(in.Secret, p.SecretHash) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		log.Debug("secret mismatch")
		return nil, ErrInvalidCredentials
	}

	// Paso 4: Emitir token
	token, exp, err := s.deps.Issuer.Issue(p, "")
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		log.Error("token issue failed", logger.Err(err))
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.TokensIssuedTotal.Inc()
	log.Info("login ok", logger.Role(string(p.Role)))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Principal: dto.FromPrincipal(p),
	}, nil
}

// Package bootstrap contiene el seeding inicial del sistema.
package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/security/password"
	"github.com/dropDatabas3/campusgate/internal/store"
)

// SeedSuperAdmin garantiza que exista exactamente un SuperAdmin con el email
// dado. Si ya existe no toca nada. Si secret viene vacío genera uno aleatorio
// y lo loguea una única vez para el primer login.
//
// Es idempotente: una carrera contra otra instancia la resuelve el store
// (ErrConflict se trata como "ya seedeado").
func SeedSuperAdmin(ctx context.Context, repo store.Repository, email, secret string) error {
	log := logger.L().With(logger.Component("bootstrap"))

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("bootstrap: superadmin email vacío")
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		log.Debug("superadmin ya existe", logger.Email(email))
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("bootstrap: verificando superadmin: %w", err)
	}

	generated := false
	if secret == "" {
		var err error
		secret, err = randomSecret()
		if err != nil {
			return fmt.Errorf("bootstrap: generando secret: %w", err)
		}
		generated = true
	}

	hash, err := password.Hash(password.Default, secret)
	if err != nil {
		return fmt.Errorf("bootstrap: hasheando secret: %w", err)
	}

	now := time.Now().UTC()
	p := &store.Principal{
		ID:         uuid.NewString(),
		Email:      email,
		SecretHash: hash,
		Role:       roles.SuperAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := repo.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Debug("superadmin creado por otra instancia", logger.Email(email))
			return nil
		}
		return fmt.Errorf("bootstrap: creando superadmin: %w", err)
	}

	if generated {
		// Única vez que el secret toca un log. Rotarlo tras el primer login.
		log.Warn("superadmin creado con secret generado",
			logger.Email(email),
			logger.String("secret", secret),
		)
	} else {
		log.Info("superadmin creado", logger.Email(email))
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

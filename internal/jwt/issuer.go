// Package jwt emite y valida los bearer tokens del servicio (EdDSA).
//
// El token es la única prueba de identidad entre requests: claims mínimas
// (sub, role, extra_roles), expiración corta y nunca el secreto. El logout es
// advisory: un token emitido sigue siendo válido hasta su exp (limitación
// documentada de la estrategia stateless).
package jwt

import (
	"crypto/ed25519"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

// ErrInvalidToken cubre firma inválida, token malformado, expirado o con
// claims irrecuperables. El caller no distingue causas (todas son 401).
var ErrInvalidToken = errors.New("invalid token")

// DefaultAccessTTL es el TTL fijo de los access tokens.
// Una sola fuente de verdad: el drift histórico entre 1m, 7d y sin-expiry
// es exactamente lo que no se repite acá.
const DefaultAccessTTL = 24 * time.Hour

const leeway = 30 * time.Second

// Claims es la proyección del principal embebida en el token.
type Claims struct {
	ID             string
	Email          string
	Role           roles.Role
	ExtraRoles     []roles.Role
	ImpersonatedBy string // ID del principal original; vacío si no hay impersonación
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// IsImpersonated indica si el token fue emitido por una impersonación activa.
func (c *Claims) IsImpersonated() bool { return c.ImpersonatedBy != "" }

// tokenClaims es el layout de wire del token.
type tokenClaims struct {
	jwtv5.RegisteredClaims
	Email      string   `json:"email,omitempty"`
	Role       string   `json:"role"`
	ExtraRoles []string `json:"extra_roles,omitempty"`
	Imp        string   `json:"imp,omitempty"`
}

// Issuer firma y valida tokens con una clave Ed25519.
type Issuer struct {
	Iss       string
	AccessTTL time.Duration

	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

func NewIssuer(iss string, priv ed25519.PrivateKey, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &Issuer{
		Iss:       iss,
		AccessTTL: accessTTL,
		priv:      priv,
		pub:       priv.Public().(ed25519.PublicKey),
	}
}

// Issue emite un token para el principal. impOrig, si no es vacío, es el ID
// del principal original detrás de una impersonación y viaja en la claim "imp".
func (i *Issuer) Issue(p *store.Principal, impOrig string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := tokenClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   p.ID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
		Email:      p.Email,
		Role:       string(p.Role),
		ExtraRoles: roles.Strings(p.ExtraRoles),
		Imp:        impOrig,
	}

	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	signed, err := tok.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma (solo EdDSA), iss y exp/nbf con una pequeña tolerancia,
// y normaliza el rol embebido. Cualquier falla retorna ErrInvalidToken: las
// claims pueden estar stale respecto del store (ventana acotada por el TTL),
// pero nunca llegan sin normalizar a una comparación de roles.
func (i *Issuer) Parse(token string) (*Claims, error) {
	var tc tokenClaims
	tok, err := jwtv5.ParseWithClaims(token, &tc,
		func(*jwtv5.Token) (any, error) { return i.pub, nil },
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithLeeway(leeway),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if tc.Subject == "" {
		return nil, ErrInvalidToken
	}
	role, ok := roles.Normalize(tc.Role)
	if !ok {
		return nil, ErrInvalidToken
	}

	c := &Claims{
		ID:             tc.Subject,
		Email:          tc.Email,
		Role:           role,
		ExtraRoles:     roles.NormalizeAll(tc.ExtraRoles),
		ImpersonatedBy: tc.Imp,
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

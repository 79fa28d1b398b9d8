package router_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/campusgate/internal/cache"
	adminctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/auth"
	authdto "github.com/dropDatabas3/campusgate/internal/http/dto/auth"
	"github.com/dropDatabas3/campusgate/internal/http/router"
	adminsvc "github.com/dropDatabas3/campusgate/internal/http/services/admin"
	authsvc "github.com/dropDatabas3/campusgate/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/rate"
	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/security/password"
	"github.com/dropDatabas3/campusgate/internal/store"
	"github.com/dropDatabas3/campusgate/internal/store/memory"
)

type env struct {
	handler http.Handler
	repo    *memory.Repo
	issuer  *jwtx.Issuer
	priv    ed25519.PrivateKey
}

func newEnv(t *testing.T, limiter rate.Limiter) *env {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	repo := memory.New()
	issuer := jwtx.NewIssuer("campusgate-test", priv, time.Hour)

	authServices := authsvc.NewServices(authsvc.Deps{Repo: repo, Issuer: issuer})
	adminServices := adminsvc.NewServices(adminsvc.Deps{Repo: repo, Issuer: issuer})

	h := router.New(router.Deps{
		Auth:         authctrl.NewControllers(authServices),
		Admin:        adminctrl.NewControllers(adminServices),
		Issuer:       issuer,
		Repo:         repo,
		LoginLimiter: limiter,
	})
	return &env{handler: h, repo: repo, issuer: issuer, priv: priv}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// seedSuperAdmin crea un SuperAdmin directo en el store y devuelve su token.
func (e *env) seedSuperAdmin(t *testing.T) (id, token string) {
	t.Helper()

	hash, err := password.Hash(password.Default, "sa-secret")
	require.NoError(t, err)

	now := time.Now().UTC()
	p := &store.Principal{
		ID:         "sa-1",
		Email:      "superadmin@school.com",
		SecretHash: hash,
		Role:       roles.SuperAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.repo.Create(context.Background(), p))

	tok, _, err := e.issuer.Issue(p, "")
	require.NoError(t, err)
	return p.ID, tok
}

func TestFlujoRegistroLoginMe(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "Alice@School.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[authdto.RegisterResponse](t, rec)
	assert.NotEmpty(t, reg.ID)

	// login con el email en otra capitalización
	rec = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[authdto.LoginResponse](t, rec)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "User", login.Principal.Role)

	rec = e.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[authdto.Principal](t, rec)
	assert.Equal(t, reg.ID, me.ID)
	assert.Equal(t, "alice@school.com", me.Email)
	assert.Empty(t, me.ImpersonatedBy)
}

func TestRegistroDuplicado409(t *testing.T) {
	e := newEnv(t, nil)

	body := map[string]string{"email": "bob@school.com", "secret": "hunter22"}
	rec := e.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "carol@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "carol@school.com", "secret": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// email inexistente: misma respuesta
	rec2 := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@school.com", "secret": "hunter22",
	})
	assert.Equal(t, rec.Code, rec2.Code)
}

// Una cuenta bloqueada responde igual que credenciales inválidas: nada en la
// respuesta permite enumerar cuentas bloqueadas.
func TestLoginCuentaBloqueadaIndistinguible(t *testing.T) {
	e := newEnv(t, nil)
	_, saTok := e.seedSuperAdmin(t)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "dave@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[authdto.RegisterResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/admin/lock/"+reg.ID, saTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// secret correcto, cuenta bloqueada
	locked := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dave@school.com", "secret": "hunter22",
	})
	// secret incorrecto, cuenta inexistente
	wrong := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@school.com", "secret": "hunter22",
	})

	assert.Equal(t, http.StatusUnauthorized, locked.Code)
	assert.Equal(t, wrong.Code, locked.Code)
	assert.JSONEq(t, wrong.Body.String(), locked.Body.String())

	// unlock restablece el login
	rec = e.do(t, http.MethodPost, "/admin/unlock/"+reg.ID, saTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dave@school.com", "secret": "hunter22",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRequiereSuperAdmin(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "eve@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "eve@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[authdto.LoginResponse](t, rec)

	// sin token: 401
	rec = e.do(t, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token de User común: 403
	rec = e.do(t, http.MethodGet, "/admin/users", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/admin/impersonate", login.Token, map[string]string{"userId": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestActualizarRolYExtraRoles(t *testing.T) {
	e := newEnv(t, nil)
	_, saTok := e.seedSuperAdmin(t)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "frank@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[authdto.RegisterResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/admin/roles/"+reg.ID, saTok, map[string]string{"role": "registrars"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd := decode[struct {
		User authdto.Principal `json:"user"`
	}](t, rec)
	assert.Equal(t, "Registrar", upd.User.Role)

	// rol desconocido se rechaza, no se degrada
	rec = e.do(t, http.MethodPost, "/admin/roles/"+reg.ID, saTok, map[string]string{"role": "wizard"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/admin/extra-roles/"+reg.ID, saTok, map[string][]string{
		"extraRoles": {"moderators", "SSG"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd = decode[struct {
		User authdto.Principal `json:"user"`
	}](t, rec)
	assert.ElementsMatch(t, []string{"Moderator", "SSG"}, upd.User.ExtraRoles)

	// usuario inexistente: 404
	rec = e.do(t, http.MethodPost, "/admin/roles/does-not-exist", saTok, map[string]string{"role": "Admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImpersonarYRestaurar(t *testing.T) {
	e := newEnv(t, nil)
	saID, saTok := e.seedSuperAdmin(t)

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "grace@school.com", "secret": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[authdto.RegisterResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/admin/impersonate", saTok, map[string]string{"userId": reg.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[struct {
		Token string `json:"token"`
	}](t, rec)

	// el token impersonado actúa como el target y expone el origen
	rec = e.do(t, http.MethodGet, "/auth/me", tok.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[authdto.Principal](t, rec)
	assert.Equal(t, reg.ID, me.ID)
	assert.Equal(t, saID, me.ImpersonatedBy)

	// el target es User: no puede tocar /admin aunque el token venga de un SA
	rec = e.do(t, http.MethodGet, "/admin/users", tok.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// restore devuelve un token del principal original sin rastro de imp
	rec = e.do(t, http.MethodPost, "/admin/impersonate/restore", tok.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	restored := decode[struct {
		Token string `json:"token"`
	}](t, rec)

	rec = e.do(t, http.MethodGet, "/auth/me", restored.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me = decode[authdto.Principal](t, rec)
	assert.Equal(t, saID, me.ID)
	assert.Empty(t, me.ImpersonatedBy)

	// restore sin impersonación activa: 409
	rec = e.do(t, http.MethodPost, "/admin/impersonate/restore", restored.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// SuperAdmin como extraRole pasa el guard por match exacto, pero impersonar
// exige SuperAdmin como rol PRIMARIO: el service lo rechaza.
func TestImpersonarExigeSuperAdminPrimario(t *testing.T) {
	e := newEnv(t, nil)

	hash, err := password.Hash(password.Default, "hunter22")
	require.NoError(t, err)
	now := time.Now().UTC()
	p := &store.Principal{
		ID:         "adm-1",
		Email:      "admin@school.com",
		SecretHash: hash,
		Role:       roles.Admin,
		ExtraRoles: []roles.Role{roles.SuperAdmin},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.repo.Create(context.Background(), p))
	tok, _, err := e.issuer.Issue(p, "")
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/admin/impersonate", tok, map[string]string{"userId": "whoever"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Un token expirado siempre es 401, nunca 403: la identidad no se evalúa.
func TestTokenExpirado401(t *testing.T) {
	e := newEnv(t, nil)
	e.seedSuperAdmin(t)

	now := time.Now()
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, jwtv5.MapClaims{
		"iss":  "campusgate-test",
		"sub":  "sa-1",
		"role": "SuperAdmin",
		"iat":  now.Add(-10 * time.Minute).Unix(),
		"exp":  now.Add(-2 * time.Minute).Unix(),
	})
	signed, err := tk.SignedString(e.priv)
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/admin/users", signed, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/auth/me", signed, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitLogin429(t *testing.T) {
	limiter := rate.NewWindowLimiter(cache.NewMemory("test"), "rl:login", 3, time.Minute)
	e := newEnv(t, limiter)

	body := map[string]string{"email": "nobody@school.com", "secret": "x"}
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = e.do(t, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, last.Code)
	}
	last = e.do(t, http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRutasDesconocidas(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodDelete, "/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Package cached decora un store.Repository con un cache read-through por ID.
//
// Solo FindByID pasa por el cache: es el lookup caliente (impersonación,
// restore, admin). Los lookups por email (login) van siempre al store para no
// cachear hashes de secretos más de lo necesario. Toda mutación de rol o lock
// invalida la entrada, como exige el modelo de staleness acotada.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/campusgate/internal/cache"
	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

type Repo struct {
	inner store.Repository
	cache cache.Client
	ttl   time.Duration

	// sf evita lecturas duplicadas al store para el mismo ID en paralelo
	sf singleflight.Group
}

var _ store.Repository = (*Repo)(nil)

func New(inner store.Repository, c cache.Client, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Repo{inner: inner, cache: c, ttl: ttl}
}

// cachedPrincipal es la proyección serializada. No incluye el secret hash:
// un hit de cache nunca puede servir para verificar credenciales.
type cachedPrincipal struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	ExtraRoles []string `json:"extra_roles,omitempty"`
	Locked     bool     `json:"locked"`
}

func cacheKey(id string) string { return "principal:" + id }

func (r *Repo) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }

func (r *Repo) FindByEmail(ctx context.Context, email string) (*store.Principal, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*store.Principal, error) {
	if raw, err := r.cache.Get(ctx, cacheKey(id)); err == nil {
		var cp cachedPrincipal
		if json.Unmarshal([]byte(raw), &cp) == nil {
			return &store.Principal{
				ID:         cp.ID,
				Email:      cp.Email,
				Role:       roles.Role(cp.Role),
				ExtraRoles: roles.NormalizeAll(cp.ExtraRoles),
				Locked:     cp.Locked,
			}, nil
		}
	}
	v, err, _ := r.sf.Do(id, func() (any, error) {
		p, err := r.inner.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.put(ctx, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.Principal).Clone(), nil
}

func (r *Repo) Create(ctx context.Context, p *store.Principal) error {
	return r.inner.Create(ctx, p)
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role roles.Role) (*store.Principal, error) {
	p, err := r.inner.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

func (r *Repo) SetExtraRoles(ctx context.Context, id string, extra []roles.Role) (*store.Principal, error) {
	p, err := r.inner.SetExtraRoles(ctx, id, extra)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

func (r *Repo) SetLocked(ctx context.Context, id string, locked bool) (*store.Principal, error) {
	p, err := r.inner.SetLocked(ctx, id, locked)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]*store.Principal, error) {
	return r.inner.List(ctx)
}

func (r *Repo) put(ctx context.Context, p *store.Principal) {
	b, err := json.Marshal(cachedPrincipal{
		ID:         p.ID,
		Email:      p.Email,
		Role:       string(p.Role),
		ExtraRoles: roles.Strings(p.ExtraRoles),
		Locked:     p.Locked,
	})
	if err != nil {
		return
	}
	_ = r.cache.Set(ctx, cacheKey(p.ID), string(b), r.ttl)
}

func (r *Repo) invalidate(ctx context.Context, id string) {
	_ = r.cache.Delete(ctx, cacheKey(id))
}

// Package memory implementa store.Repository en memoria.
// Pensado para desarrollo y tests; la unicidad de email es atómica bajo el mutex.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

type Repo struct {
	mu      sync.RWMutex
	byID    map[string]*store.Principal
	byEmail map[string]string // email -> id
}

func New() *Repo {
	return &Repo{
		byID:    make(map[string]*store.Principal),
		byEmail: make(map[string]string),
	}
}

var _ store.Repository = (*Repo)(nil)

func (r *Repo) Ping(ctx context.Context) error { return ctx.Err() }

func (r *Repo) FindByEmail(ctx context.Context, email string) (*store.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*store.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *Repo) Create(ctx context.Context, p *store.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normEmail(p.Email)
	if _, exists := r.byEmail[email]; exists {
		return store.ErrConflict
	}
	cp := p.Clone()
	cp.Email = email
	now := time.Now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	r.byID[cp.ID] = cp
	r.byEmail[email] = cp.ID
	return nil
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role roles.Role) (*store.Principal, error) {
	return r.mutate(ctx, id, func(p *store.Principal) { p.Role = role })
}

func (r *Repo) SetExtraRoles(ctx context.Context, id string, extra []roles.Role) (*store.Principal, error) {
	return r.mutate(ctx, id, func(p *store.Principal) {
		p.ExtraRoles = append([]roles.Role(nil), extra...)
	})
}

func (r *Repo) SetLocked(ctx context.Context, id string, locked bool) (*store.Principal, error) {
	return r.mutate(ctx, id, func(p *store.Principal) { p.Locked = locked })
}

func (r *Repo) List(ctx context.Context) ([]*store.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*store.Principal, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *Repo) mutate(ctx context.Context, id string, fn func(*store.Principal)) (*store.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package pg implementa store.Repository sobre PostgreSQL usando pgxpool.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

type Repo struct {
	pool *pgxpool.Pool
}

var _ store.Repository = (*Repo)(nil)

// New abre el pool y valida la conexión. maxConns <= 0 deja el default de pgx.
func New(ctx context.Context, dsn string, maxConns int) (*Repo, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		pcfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, mapErr(err)
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

// EnsureSchema crea la tabla de principals si no existe.
// El índice único sobre lower(email) garantiza la atomicidad del registro.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS principal (
			id          TEXT PRIMARY KEY,
			email       TEXT NOT NULL,
			secret_hash TEXT NOT NULL,
			role        TEXT NOT NULL DEFAULT 'User',
			extra_roles TEXT[] NOT NULL DEFAULT '{}',
			locked      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS principal_email_uq ON principal (lower(email));
	`)
	return mapErr(err)
}

func (r *Repo) Ping(ctx context.Context) error {
	return mapErr(r.pool.Ping(ctx))
}

const principalCols = `id, email, secret_hash, role, extra_roles, locked, created_at, updated_at`

func (r *Repo) FindByEmail(ctx context.Context, email string) (*store.Principal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+principalCols+` FROM principal WHERE lower(email) = lower($1)`, email)
	return scanPrincipal(row)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*store.Principal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+principalCols+` FROM principal WHERE id = $1`, id)
	return scanPrincipal(row)
}

func (r *Repo) Create(ctx context.Context, p *store.Principal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO principal (id, email, secret_hash, role, extra_roles, locked)
		VALUES ($1, lower($2), $3, $4, $5, $6)`,
		p.ID, p.Email, p.SecretHash, string(p.Role), roles.Strings(p.ExtraRoles), p.Locked)
	return mapErr(err)
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role roles.Role) (*store.Principal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE principal SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+principalCols, id, string(role))
	return scanPrincipal(row)
}

func (r *Repo) SetExtraRoles(ctx context.Context, id string, extra []roles.Role) (*store.Principal, error) {
	rs := roles.Strings(extra)
	if rs == nil {
		rs = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE principal SET extra_roles = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+principalCols, id, rs)
	return scanPrincipal(row)
}

func (r *Repo) SetLocked(ctx context.Context, id string, locked bool) (*store.Principal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE principal SET locked = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+principalCols, id, locked)
	return scanPrincipal(row)
}

func (r *Repo) List(ctx context.Context) ([]*store.Principal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+principalCols+` FROM principal ORDER BY email`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*store.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPrincipal(row scannable) (*store.Principal, error) {
	var p store.Principal
	var role string
	var extra []string
	err := row.Scan(&p.ID, &p.Email, &p.SecretHash, &role, &extra, &p.Locked,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	// Los roles vienen de la base ya canónicos; normalizamos defensivamente
	// por si quedó un valor viejo (se descarta lo que no normaliza).
	if r, ok := roles.Normalize(role); ok {
		p.Role = r
	} else {
		p.Role = roles.Role(role)
	}
	p.ExtraRoles = roles.NormalizeAll(extra)
	return &p, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return store.ErrConflict
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return store.ErrUnavailable
	}
	return err
}

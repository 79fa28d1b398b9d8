package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
)

func newPrincipal(email string) *store.Principal {
	return &store.Principal{
		ID:         uuid.NewString(),
		Email:      email,
		SecretHash: "$argon2id$fake",
		Role:       roles.User,
	}
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := New()

	p := newPrincipal("Alice@Example.com")
	require.NoError(t, r.Create(ctx, p))

	// Lookup por email es case-insensitive
	got, err := r.FindByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)

	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = r.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_DuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	r := New()

	require.NoError(t, r.Create(ctx, newPrincipal("dup@example.com")))
	err := r.Create(ctx, newPrincipal("DUP@example.com"))
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestCreate_ConcurrentSameEmail_SingleWinner(t *testing.T) {
	ctx := context.Background()
	r := New()

	const workers = 32
	var ok, conflict atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Create(ctx, newPrincipal("race@example.com"))
			switch {
			case err == nil:
				ok.Add(1)
			case err == store.ErrConflict:
				conflict.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ok.Load())
	assert.Equal(t, int64(workers-1), conflict.Load())
}

func TestMutations(t *testing.T) {
	ctx := context.Background()
	r := New()
	p := newPrincipal("bob@example.com")
	require.NoError(t, r.Create(ctx, p))

	up, err := r.UpdateRole(ctx, p.ID, roles.Moderator)
	require.NoError(t, err)
	assert.Equal(t, roles.Moderator, up.Role)

	up, err = r.SetExtraRoles(ctx, p.ID, []roles.Role{roles.SSG})
	require.NoError(t, err)
	assert.Equal(t, []roles.Role{roles.SSG}, up.ExtraRoles)

	up, err = r.SetLocked(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, up.Locked)

	_, err = r.UpdateRole(ctx, "missing", roles.Admin)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = r.SetLocked(ctx, "missing", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClone_CallersCannotMutateStore(t *testing.T) {
	ctx := context.Background()
	r := New()
	p := newPrincipal("carol@example.com")
	p.ExtraRoles = []roles.Role{roles.SSG}
	require.NoError(t, r.Create(ctx, p))

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	got.Role = roles.SuperAdmin
	got.ExtraRoles[0] = roles.Admin

	again, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, roles.User, again.Role)
	assert.Equal(t, []roles.Role{roles.SSG}, again.ExtraRoles)
}

func TestList_SortedByEmail(t *testing.T) {
	ctx := context.Background()
	r := New()
	require.NoError(t, r.Create(ctx, newPrincipal("b@example.com")))
	require.NoError(t, r.Create(ctx, newPrincipal("a@example.com")))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@example.com", all[0].Email)
	assert.Equal(t, "b@example.com", all[1].Email)
}

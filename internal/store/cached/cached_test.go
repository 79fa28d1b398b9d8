package cached

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/campusgate/internal/cache"
	"github.com/dropDatabas3/campusgate/internal/roles"
	"github.com/dropDatabas3/campusgate/internal/store"
	"github.com/dropDatabas3/campusgate/internal/store/memory"
)

func seed(t *testing.T, inner store.Repository) *store.Principal {
	t.Helper()
	p := &store.Principal{
		ID:    uuid.NewString(),
		Email: "alice@example.com",
		Role:  roles.User,
	}
	require.NoError(t, inner.Create(context.Background(), p))
	return p
}

func TestFindByID_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	c := cache.NewMemory("t1:")
	r := New(inner, c, time.Minute)
	p := seed(t, inner)

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, roles.User, got.Role)

	// Segunda lectura viene del cache (mutamos el inner por debajo para probarlo)
	_, err = inner.UpdateRole(ctx, p.ID, roles.Admin)
	require.NoError(t, err)

	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, roles.User, got.Role, "expected stale cached role")
}

func TestMutationsInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	r := New(inner, cache.NewMemory("t2:"), time.Minute)
	p := seed(t, inner)

	_, err := r.FindByID(ctx, p.ID) // calienta el cache
	require.NoError(t, err)

	_, err = r.UpdateRole(ctx, p.ID, roles.Moderator)
	require.NoError(t, err)

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, roles.Moderator, got.Role)

	_, err = r.SetLocked(ctx, p.ID, true)
	require.NoError(t, err)
	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked)

	_, err = r.SetExtraRoles(ctx, p.ID, []roles.Role{roles.SSG})
	require.NoError(t, err)
	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []roles.Role{roles.SSG}, got.ExtraRoles)
}

func TestCachedEntryOmitsSecret(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	r := New(inner, cache.NewMemory("t3:"), time.Minute)

	p := &store.Principal{
		ID:         uuid.NewString(),
		Email:      "bob@example.com",
		SecretHash: "$argon2id$not-for-caching",
		Role:       roles.User,
	}
	require.NoError(t, inner.Create(ctx, p))

	_, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	got, err := r.FindByID(ctx, p.ID) // hit
	require.NoError(t, err)
	assert.Empty(t, got.SecretHash)
}

package app

import (
	"context"
	"testing"

	"eventsx/internal/adapter/memory"
	"eventsx/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBootstrapAdmin_MemoryStore(t *testing.T) {
	db := memory.New()
	svc := NewAuthService(db, db.NewSessionRepo(), 0).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	ok, err := svc.BootstrapAdmin(ctx, "admin", "admin@x.com", "adminpass1")
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := svc.Login(ctx, "", "admin", "adminpass1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, sess.Profile.Role)

	// Second start is a no-op.
	ok, err = svc.BootstrapAdmin(ctx, "admin2", "admin2@x.com", "adminpass1")
	require.NoError(t, err)
	assert.False(t, ok)
	n, _ := db.Count(ctx)
	assert.Equal(t, 1, n)

	catalog := NewCatalogService(db, nil)
	e, err := catalog.AddEvent(ctx, &sess.Profile, domain.Event{Name: "Open Mic"})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
}

package identities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/client/db"
	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directories(t *testing.T) map[string]Directory {
	t.Helper()
	conn, err := db.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return map[string]Directory{
		"sqlite": NewSQLiteRepository(conn),
		"memory": NewMemory(),
	}
}

func TestDirectory_InsertAndFind(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			salt, verifier := cryptox.NewVerifier([]byte("secret"))

			in := &models.Identity{ID: "42", Name: "Jane Doe", Email: "Jane@Example.com", Role: models.RoleUser, Salt: salt, Verifier: verifier}
			require.NoError(t, dir.Insert(ctx, in))

			got, err := dir.FindByEmail(ctx, "jane@example.COM")
			require.NoError(t, err)
			assert.Equal(t, "42", got.ID)
			assert.Equal(t, "Jane Doe", got.Name)
			assert.Equal(t, "Jane@Example.com", got.Email)
			assert.Equal(t, models.RoleUser, got.Role)
			assert.True(t, cryptox.CheckPassword([]byte("secret"), got.Salt, got.Verifier))
		})
	}
}

func TestDirectory_FindMissing(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := dir.FindByEmail(context.Background(), "nobody@example.com")
			require.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestDirectory_DuplicateEmailIgnoringCase(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := &models.Identity{ID: "1", Name: "A", Email: "a@b.com", Role: models.RoleUser, Salt: []byte{1}, Verifier: []byte{1}}
			dup := &models.Identity{ID: "2", Name: "B", Email: "A@B.COM", Role: models.RoleAdmin, Salt: []byte{2}, Verifier: []byte{2}}

			require.NoError(t, dir.Insert(ctx, first))
			require.ErrorIs(t, dir.Insert(ctx, dup), common.ErrEmailAlreadyExists)

			got, err := dir.FindByEmail(ctx, "a@b.com")
			require.NoError(t, err)
			assert.Equal(t, "1", got.ID, "original identity must be untouched")
		})
	}
}

func TestSeed_AddsDefaultsOnce(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := Seed(ctx, dir, DefaultIdentities, common.SharedPassword)
			require.NoError(t, err)
			assert.Equal(t, len(DefaultIdentities), n)

			n, err = Seed(ctx, dir, DefaultIdentities, common.SharedPassword)
			require.NoError(t, err)
			assert.Zero(t, n)

			admin, err := dir.FindByEmail(ctx, "ADMIN@library.com")
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, admin.Role)
			assert.True(t, cryptox.CheckPassword([]byte(common.SharedPassword), admin.Salt, admin.Verifier))
		})
	}
}

func TestMemory_Len(t *testing.T) {
	m := NewMemory()
	_, err := Seed(context.Background(), m, DefaultIdentities, "pw")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	conn, err := db.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	insert := `INSERT INTO identities (id, name, email, role, salt, verifier, created_at) VALUES (?, ?, ?, 'user', x'01', x'01', ?)`
	_, err = conn.ExecContext(ctx, insert, "1", "A", "a@b.com", time.Now().UTC())
	require.NoError(t, err)

	// Bypasses the lookup in Insert, so only the lower(email) index stops it.
	_, err = conn.ExecContext(ctx, insert, "2", "B", "A@B.com", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("insert"), err)), "wrapped errors are matched too")

	_, err = conn.ExecContext(ctx, `INSERT INTO identities (id) VALUES ('3')`)
	require.Error(t, err, "NOT NULL violation")
	assert.False(t, isUniqueViolation(err))

	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed: identities.email")))
	assert.False(t, isUniqueViolation(nil))
}

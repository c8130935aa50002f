package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestDirectoryStore(t)

	created, err := store.Create(ctx, EmployeeInput{
		Name:       "Ana Weber",
		Role:       "Engineer",
		Email:      "ana@example.com",
		Department: "Platform",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana Weber", created.Name)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Platform", got.Department)

	updated, err := store.Update(ctx, created.ID, EmployeeInput{
		Name:  "Ana Weber",
		Role:  "Staff Engineer",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Role)
	assert.Empty(t, updated.Department)

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListOrdersByName(t *testing.T) {
	ctx := context.Background()
	store := newTestDirectoryStore(t)

	for _, name := range []string{"Zoe", "Ana", "Mia"} {
		_, err := store.Create(ctx, EmployeeInput{Name: name, Role: "Engineer", Email: name + "@example.com"})
		require.NoError(t, err)
	}

	employees, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "Ana", employees[0].Name)
	assert.Equal(t, "Mia", employees[1].Name)
	assert.Equal(t, "Zoe", employees[2].Name)
}

func TestStoreListEmpty(t *testing.T) {
	store := newTestDirectoryStore(t)

	employees, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestStoreValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestDirectoryStore(t)

	_, err := store.Create(ctx, EmployeeInput{Name: "No Role", Email: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
	assert.Contains(t, err.Error(), "role")
}

func TestStoreUpdateUnknownID(t *testing.T) {
	store := newTestDirectoryStore(t)

	_, err := store.Update(context.Background(), "does-not-exist", EmployeeInput{
		Name: "X", Role: "Y", Email: "x@example.com",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDeleteUnknownID(t *testing.T) {
	store := newTestDirectoryStore(t)
	assert.ErrorIs(t, store.Delete(context.Background(), "does-not-exist"), ErrNotFound)
}

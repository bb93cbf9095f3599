package cart_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
)

func setupTestDB(t *testing.T) (*cart.SQLiteRepository, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "storefront.db")
	repo, err := cart.NewSQLiteRepository(dbPath)
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("../../migrations"))

	t.Cleanup(func() { repo.Close() })
	return repo, dbPath
}

func TestLoad_EmptyDatabase(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, cart.ErrSnapshotNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	snapshot := []byte(`[{"_id":"a","quantity":2}]`)
	require.NoError(t, repo.Save(ctx, snapshot))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestSave_OverwritesPreviousSnapshot(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte(`[{"_id":"a","quantity":1}]`)))
	require.NoError(t, repo.Save(ctx, []byte(`[]`)))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestSnapshot_SurvivesReopen(t *testing.T) {
	ctx := context.Background()

	repo, dbPath := setupTestDB(t)
	snapshot := []byte(`[{"_id":"a","price":{"$numberInt":"1000"},"quantity":2}]`)
	require.NoError(t, repo.Save(ctx, snapshot))
	require.NoError(t, repo.Close())

	reopened, err := cart.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestStoreOnSQLite_EndToEnd(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	store := cart.NewStore(ctx, repo)
	require.NoError(t, store.Add(ctx, cart.LineItem{ProductID: "a", Name: "balm", Quantity: 2}))

	restored := cart.NewStore(ctx, repo)
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/mediavault-server/internal/model"
)

func strPtr(s string) *string { return &s }

func TestVaults_CreateThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "Trip", Color: "blue"})
	require.NoError(t, err)
	assert.Equal(t, f.owner, v.OwnerID)
	assert.False(t, v.IsLocked)

	list, err := f.vaults.List(ctx, f.owner)
	require.NoError(t, err)

	found := 0
	for _, got := range list {
		if got.ID == v.ID {
			found++
			assert.Equal(t, 0, got.ItemCount)
			assert.Equal(t, "Trip", got.Name)
		}
	}
	assert.Equal(t, 1, found)
}

func TestVaults_Create_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.vaults.Create(context.Background(), f.owner, model.NewVaultParams{Name: ""})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	list, err := f.vaults.List(context.Background(), f.owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVaults_List_OrderedByUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "a"})
	require.NoError(t, err)
	b, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "b"})
	require.NoError(t, err)

	list, err := f.vaults.List(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = f.vaults.Update(ctx, f.owner, a.ID, model.VaultPatch{})
	require.NoError(t, err)

	list, err = f.vaults.List(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestVaults_Update_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "Trip", Description: "summer", Color: "blue"})
	require.NoError(t, err)

	updated, err := f.vaults.Update(ctx, f.owner, v.ID, model.VaultPatch{Color: strPtr("red")})
	require.NoError(t, err)
	assert.Equal(t, "Trip", updated.Name)
	assert.Equal(t, "summer", updated.Description)
	assert.Equal(t, "red", updated.Color)
	assert.True(t, updated.UpdatedAt.After(v.UpdatedAt))
	assert.Equal(t, updated.UpdatedAt, updated.LastAccessed())

	_, err = f.vaults.Update(ctx, f.owner, v.ID, model.VaultPatch{Name: strPtr("")})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = f.vaults.Update(ctx, uuid.New(), v.ID, model.VaultPatch{Color: strPtr("green")})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVaults_Get_OtherOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "mine"})
	require.NoError(t, err)

	_, err = f.vaults.Get(ctx, uuid.New(), v.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVaults_StoreFailureIsTransient(t *testing.T) {
	f := newFixture(t)
	f.db.FailOn("vaults.ListByOwner", errors.New("connection reset"))

	_, err := f.vaults.List(context.Background(), f.owner)
	assert.ErrorIs(t, err, model.ErrTransient)
}

// seedVault creates a vault holding n photos.
func seedVault(t *testing.T, f *fixture, n int) (model.Vault, []model.Item) {
	t.Helper()
	ctx := context.Background()

	v, err := f.vaults.Create(ctx, f.owner, model.NewVaultParams{Name: "seed"})
	require.NoError(t, err)

	var items []model.Item
	for i := 0; i < n; i++ {
		item, err := f.items.Create(ctx, f.owner, v.ID, mustPhoto(t, "p", 3), bytes.NewReader([]byte("enc")))
		require.NoError(t, err)
		items = append(items, item)
	}
	return v, items
}

func TestVaults_Delete_Cascade(t *testing.T) {
	f := newFixture(t)
	v, _ := seedVault(t, f, 4)
	// A blob without a row, left by an interrupted upload.
	f.blobs.Seed(v.StoragePrefix()+"orphan.bin", []byte("x"))

	err := f.vaults.Delete(context.Background(), f.owner, v.ID)
	require.NoError(t, err)

	assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
	assert.Equal(t, 0, f.db.CountItems(v.ID))
	_, err = f.vaults.Get(context.Background(), f.owner, v.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVaults_Delete_OneFailingKey(t *testing.T) {
	t.Run("transient failure is retried", func(t *testing.T) {
		f := newFixture(t)
		v, items := seedVault(t, f, 3)
		f.blobs.FailRemove(items[1].BlobRef, 1)

		err := f.vaults.Delete(context.Background(), f.owner, v.ID)
		require.NoError(t, err)
		assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
		assert.Equal(t, 0, f.db.CountItems(v.ID))
	})

	t.Run("persistent failure is reported and metadata still removed", func(t *testing.T) {
		f := newFixture(t)
		v, items := seedVault(t, f, 3)
		f.blobs.FailRemove(items[1].BlobRef, -1)

		err := f.vaults.Delete(context.Background(), f.owner, v.ID)
		require.Error(t, err)

		var partial *model.PartialDeleteError
		require.ErrorAs(t, err, &partial)
		assert.ErrorIs(t, err, model.ErrPartialDelete)
		assert.Equal(t, []string{items[1].BlobRef}, partial.FailedKeys())
		assert.Nil(t, partial.MetadataErr)

		assert.Equal(t, 0, f.db.CountItems(v.ID))
		assert.Equal(t, []string{items[1].BlobRef}, f.blobs.Keys(v.StoragePrefix()))
		_, err = f.vaults.Get(context.Background(), f.owner, v.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestVaults_Delete_ListingFailureUsesRowRefs(t *testing.T) {
	f := newFixture(t)
	v, _ := seedVault(t, f, 2)
	f.blobs.ListErr = errors.New("listing timed out")

	err := f.vaults.Delete(context.Background(), f.owner, v.ID)

	var partial *model.PartialDeleteError
	require.ErrorAs(t, err, &partial)
	assert.Empty(t, partial.Failures)
	assert.Error(t, partial.ListErr)
	assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
	assert.Equal(t, 0, f.db.CountItems(v.ID))
}

func TestVaults_Delete_RowFailureKeepsVaultWithoutBlobs(t *testing.T) {
	f := newFixture(t)
	v, _ := seedVault(t, f, 2)
	f.db.FailOn("vaults.Delete", errors.New("connection reset"))

	err := f.vaults.Delete(context.Background(), f.owner, v.ID)
	assert.ErrorIs(t, err, model.ErrTransient)
	assert.NotErrorIs(t, err, model.ErrPartialDelete)

	assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
	_, err = f.vaults.Get(context.Background(), f.owner, v.ID)
	require.NoError(t, err)

	f.db.FailOn("vaults.Delete", nil)
	require.NoError(t, f.vaults.Delete(context.Background(), f.owner, v.ID))
}

func TestVaults_Delete_NotFound(t *testing.T) {
	f := newFixture(t)
	v, _ := seedVault(t, f, 1)

	err := f.vaults.Delete(context.Background(), uuid.New(), v.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Len(t, f.blobs.Keys(v.StoragePrefix()), 1)
}

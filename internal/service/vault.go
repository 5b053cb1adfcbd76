package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
)

// Vaults manages vault metadata and the cascade over items and blobs.
type Vaults struct {
	vaultStore model.VaultStore
	itemStore  model.ItemStore
	storage    model.ObjectStore
	logger     *logger.Logger
}

func NewVaults(
	vaultStore model.VaultStore,
	itemStore model.ItemStore,
	storage model.ObjectStore,
	logger *logger.Logger,
) *Vaults {
	return &Vaults{
		vaultStore: vaultStore,
		itemStore:  itemStore,
		storage:    storage,
		logger:     logger,
	}
}

func (s *Vaults) Create(ctx context.Context, ownerID uuid.UUID, params model.NewVaultParams) (model.Vault, error) {
	if err := params.Validate(); err != nil {
		return model.Vault{}, err
	}

	vault, err := s.vaultStore.Create(ctx, model.Vault{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
	})
	if err != nil {
		return model.Vault{}, storeError("failed to create vault", err)
	}

	return vault, nil
}

// Update applies patch. updated_at is refreshed even for an empty patch.
func (s *Vaults) Update(ctx context.Context, ownerID, vaultID uuid.UUID, patch model.VaultPatch) (model.Vault, error) {
	if err := patch.Validate(); err != nil {
		return model.Vault{}, err
	}

	vault, err := s.vaultStore.Update(ctx, ownerID, vaultID, patch)
	if err != nil {
		return model.Vault{}, storeError("failed to update vault", err)
	}

	return vault, nil
}

func (s *Vaults) Get(ctx context.Context, ownerID, vaultID uuid.UUID) (model.Vault, error) {
	vault, err := s.vaultStore.GetByID(ctx, ownerID, vaultID)
	if err != nil {
		return model.Vault{}, storeError("failed to get vault", err)
	}
	return vault, nil
}

// List returns the vaults of ownerID, most recently updated first.
func (s *Vaults) List(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error) {
	vaults, err := s.vaultStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("failed to list vaults", err)
	}
	return vaults, nil
}

// Delete removes every blob of the vault and then the vault row, whose
// cascade removes the item rows.
//
// Blob removal is best effort. If some blobs could not be removed the vault
// is still deleted and a *model.PartialDeleteError lists them. If the row
// delete fails the vault stays, without blobs, and can be deleted again.
func (s *Vaults) Delete(ctx context.Context, ownerID, vaultID uuid.UUID) error {
	vault, err := s.vaultStore.GetByID(ctx, ownerID, vaultID)
	if err != nil {
		return storeError("failed to get vault", err)
	}

	keys, listErr := s.collectBlobKeys(ctx, vault)
	failures := s.removeBlobs(ctx, vault, keys)

	if err := s.vaultStore.Delete(ctx, ownerID, vaultID); err != nil {
		return storeError("failed to delete vault", err)
	}

	if len(failures) == 0 && listErr == nil {
		return nil
	}

	return &model.PartialDeleteError{
		Failures: failures,
		ListErr:  listErr,
	}
}

// collectBlobKeys unions the object-store listing of the vault prefix with
// the blob refs recorded on item rows, so either source alone still finds
// the known blobs.
func (s *Vaults) collectBlobKeys(ctx context.Context, vault model.Vault) ([]string, error) {
	prefix := vault.StoragePrefix()
	set := make(map[string]struct{})

	objects, listErr := s.storage.List(ctx, prefix)
	if listErr != nil {
		s.logger.Warn("Vaults service: failed to list vault blobs",
			"vault_id", vault.ID,
			"prefix", prefix,
			"error", listErr)
	}
	for _, obj := range objects {
		set[obj.Key] = struct{}{}
	}

	refs, refsErr := s.itemStore.ListBlobRefs(ctx, vault.OwnerID, vault.ID)
	if refsErr != nil {
		s.logger.Warn("Vaults service: failed to list item blob refs",
			"vault_id", vault.ID,
			"error", refsErr)
	}
	for _, ref := range refs {
		set[ref] = struct{}{}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch {
	case listErr != nil && refsErr != nil:
		return keys, errors.Join(listErr, refsErr)
	case listErr != nil:
		return keys, listErr
	}
	return keys, nil
}

// removeBlobs removes keys and retries the failed ones once. It returns the
// failures that persisted, sorted by key.
func (s *Vaults) removeBlobs(ctx context.Context, vault model.Vault, keys []string) []model.BlobFailure {
	if len(keys) == 0 {
		return nil
	}

	failed := s.storage.Remove(ctx, keys)
	if len(failed) > 0 && ctx.Err() == nil {
		retry := make([]string, 0, len(failed))
		for k := range failed {
			retry = append(retry, k)
		}
		sort.Strings(retry)
		s.logger.Info("Vaults service: retrying blob removal",
			"vault_id", vault.ID,
			"keys", len(retry))
		failed = s.storage.Remove(ctx, retry)
	}

	failures := make([]model.BlobFailure, 0, len(failed))
	for key, err := range failed {
		s.logger.Error("Vaults service: failed to remove blob",
			"vault_id", vault.ID,
			"blob_ref", key,
			"error", err)
		failures = append(failures, model.BlobFailure{Key: key, Err: err})
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Key < failures[j].Key })

	if len(failures) == 0 {
		return nil
	}
	return failures
}

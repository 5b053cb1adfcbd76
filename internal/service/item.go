package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
)

// Items manages item metadata together with the encrypted blobs it points to.
type Items struct {
	itemStore  model.ItemStore
	vaultStore model.VaultStore
	storage    model.ObjectStore
	logger     *logger.Logger
}

func NewItems(
	itemStore model.ItemStore,
	vaultStore model.VaultStore,
	storage model.ObjectStore,
	logger *logger.Logger,
) *Items {
	return &Items{
		itemStore:  itemStore,
		vaultStore: vaultStore,
		storage:    storage,
		logger:     logger,
	}
}

// Create uploads blob and then records the item. The metadata row only
// becomes visible once the blob is stored; if the row cannot be written the
// blob is removed again.
func (s *Items) Create(ctx context.Context, ownerID, vaultID uuid.UUID, req model.NewItem, blob io.Reader) (model.Item, error) {
	if req.Media == nil {
		return model.Item{}, model.NewValidationError("media", "required")
	}

	if _, err := s.vaultStore.GetByID(ctx, ownerID, vaultID); err != nil {
		return model.Item{}, storeError("failed to get vault", err)
	}

	id := uuid.New()
	filename := id.String() + strings.ToLower(filepath.Ext(req.OriginalName))
	key := model.BlobKey(ownerID, vaultID, filename)

	if err := s.storage.Put(ctx, key, blob, req.SizeBytes); err != nil {
		// A failed put may still have left a partial object behind.
		s.removeOrphan(ctx, key)
		return model.Item{}, model.NewTransientError("failed to upload blob", err)
	}

	if err := ctx.Err(); err != nil {
		s.removeOrphan(ctx, key)
		return model.Item{}, fmt.Errorf("item creation cancelled: %w", err)
	}

	item, err := s.itemStore.Create(ctx, model.Item{
		ID:        id,
		VaultID:   vaultID,
		OwnerID:   ownerID,
		Name:      req.Name,
		Filename:  filename,
		BlobRef:   key,
		SizeBytes: req.SizeBytes,
		Media:     req.Media,
	})
	if err != nil {
		s.removeOrphan(ctx, key)
		return model.Item{}, storeError("failed to create item", err)
	}

	if err := s.vaultStore.Touch(ctx, ownerID, vaultID); err != nil {
		s.logger.Warn("Items service: failed to bump vault updated_at",
			"vault_id", vaultID,
			"error", err)
	}

	return item, nil
}

// Get returns an item owned by ownerID.
func (s *Items) Get(ctx context.Context, ownerID, itemID uuid.UUID) (model.Item, error) {
	item, err := s.itemStore.GetByID(ctx, ownerID, itemID)
	if err != nil {
		return model.Item{}, storeError("failed to get item", err)
	}
	return item, nil
}

// List returns the items of a vault, most recent first.
func (s *Items) List(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error) {
	if _, err := s.vaultStore.GetByID(ctx, ownerID, vaultID); err != nil {
		return nil, storeError("failed to get vault", err)
	}

	items, err := s.itemStore.ListByVault(ctx, ownerID, vaultID)
	if err != nil {
		return nil, storeError("failed to list items", err)
	}
	return items, nil
}

// Open returns the item and a reader over its encrypted blob. The caller
// closes the reader.
func (s *Items) Open(ctx context.Context, ownerID, itemID uuid.UUID) (io.ReadCloser, model.Item, error) {
	item, err := s.Get(ctx, ownerID, itemID)
	if err != nil {
		return nil, model.Item{}, err
	}

	reader, err := s.storage.Get(ctx, item.BlobRef)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Items service: item blob is missing",
				"item_id", item.ID,
				"blob_ref", item.BlobRef)
			return nil, model.Item{}, fmt.Errorf("failed to open blob: %w", model.ErrNotFound)
		}
		return nil, model.Item{}, model.NewTransientError("failed to open blob", err)
	}

	return reader, item, nil
}

// Rename changes the display name of an item.
func (s *Items) Rename(ctx context.Context, ownerID, itemID uuid.UUID, name string) (model.Item, error) {
	if err := model.ValidateItemName(name); err != nil {
		return model.Item{}, err
	}

	item, err := s.itemStore.Rename(ctx, ownerID, itemID, name)
	if err != nil {
		return model.Item{}, storeError("failed to rename item", err)
	}
	return item, nil
}

// Delete removes the blob and then the metadata row.
//
// When exactly one of the two steps fails a *model.PartialDeleteError
// describes what is left behind. When both fail nothing changed and a
// transient error is returned.
func (s *Items) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.itemStore.GetByID(ctx, ownerID, itemID)
	if err != nil {
		return storeError("failed to get item", err)
	}

	blobErr := s.storage.Remove(ctx, []string{item.BlobRef})[item.BlobRef]

	rowErr := s.itemStore.Delete(ctx, ownerID, itemID)
	if errors.Is(rowErr, model.ErrNotFound) {
		// Removed concurrently; the row is gone either way.
		rowErr = nil
	}

	switch {
	case blobErr != nil && rowErr != nil:
		return model.NewTransientError("failed to delete item", errors.Join(blobErr, rowErr))
	case rowErr != nil:
		s.logger.Error("Items service: blob removed but item row remains",
			"item_id", item.ID,
			"error", rowErr)
		return &model.PartialDeleteError{
			MetadataErr: model.NewTransientError("failed to delete item row", rowErr),
		}
	case blobErr != nil:
		s.logger.Error("Items service: item row removed but blob remains",
			"item_id", item.ID,
			"blob_ref", item.BlobRef,
			"error", blobErr)
		return &model.PartialDeleteError{
			Failures: []model.BlobFailure{{Key: item.BlobRef, Err: blobErr}},
		}
	}

	return nil
}

// Usage returns the aggregate usage of ownerID.
func (s *Items) Usage(ctx context.Context, ownerID uuid.UUID) (model.Usage, error) {
	usage, err := s.itemStore.UsageByOwner(ctx, ownerID)
	if err != nil {
		return model.Usage{}, storeError("failed to get usage", err)
	}
	return usage, nil
}

func (s *Items) removeOrphan(ctx context.Context, key string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.storage.Remove(ctx, []string{key})[key]; err != nil {
		s.logger.Error("Items service: failed to remove orphaned blob",
			"blob_ref", key,
			"error", err)
	}
}

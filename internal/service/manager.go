package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
)

// Manager is the entry point for vault and item operations. It rejects
// unauthenticated callers and gates every add on the quota policy.
type Manager struct {
	vaults       *Vaults
	items        *Items
	policy       quota.Policy
	entitlements model.Entitlements
	logger       *logger.Logger
}

func NewManager(
	vaults *Vaults,
	items *Items,
	policy quota.Policy,
	entitlements model.Entitlements,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		vaults:       vaults,
		items:        items,
		policy:       policy,
		entitlements: entitlements,
		logger:       logger,
	}
}

func authenticated(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return model.ErrNotAuthenticated
	}
	return nil
}

func (m *Manager) CreateVault(ctx context.Context, ownerID uuid.UUID, params model.NewVaultParams) (model.Vault, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Vault{}, err
	}
	return m.vaults.Create(ctx, ownerID, params)
}

func (m *Manager) UpdateVault(ctx context.Context, ownerID, vaultID uuid.UUID, patch model.VaultPatch) (model.Vault, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Vault{}, err
	}
	return m.vaults.Update(ctx, ownerID, vaultID, patch)
}

func (m *Manager) GetVault(ctx context.Context, ownerID, vaultID uuid.UUID) (model.Vault, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Vault{}, err
	}
	return m.vaults.Get(ctx, ownerID, vaultID)
}

func (m *Manager) ListVaults(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error) {
	if err := authenticated(ownerID); err != nil {
		return nil, err
	}
	return m.vaults.List(ctx, ownerID)
}

// DeleteVault deletes a vault with all its items and blobs. A
// *model.PartialDeleteError is returned as is: the vault is gone but some
// blobs may remain.
func (m *Manager) DeleteVault(ctx context.Context, ownerID, vaultID uuid.UUID) error {
	if err := authenticated(ownerID); err != nil {
		return err
	}
	return m.vaults.Delete(ctx, ownerID, vaultID)
}

// CheckQuota evaluates the policy for candidate without mutating anything.
func (m *Manager) CheckQuota(ctx context.Context, ownerID uuid.UUID, candidate model.Candidate) (quota.Decision, error) {
	if err := authenticated(ownerID); err != nil {
		return quota.Decision{}, err
	}

	usage, err := m.items.Usage(ctx, ownerID)
	if err != nil {
		return quota.Decision{}, err
	}

	sub := m.entitlements.Current(ownerID)
	decision := m.policy.CanAdd(candidate, usage, sub)
	if !decision.Allowed {
		m.logger.Info("Manager: quota denied",
			"owner_id", ownerID,
			"tier", sub.Tier,
			"known", sub.Known,
			"type", candidate.Type,
			"reason", decision.Reason)
	}

	return decision, nil
}

// AddItem stores a new item once the quota policy allows it. A denial
// returns a *model.QuotaExceededError and nothing is written.
func (m *Manager) AddItem(ctx context.Context, ownerID, vaultID uuid.UUID, req model.NewItem, blob io.Reader) (model.Item, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Item{}, err
	}
	if req.Media == nil {
		return model.Item{}, model.NewValidationError("media", "required")
	}

	decision, err := m.CheckQuota(ctx, ownerID, req.Candidate())
	if err != nil {
		return model.Item{}, err
	}
	if err := decision.Err(); err != nil {
		return model.Item{}, err
	}

	return m.items.Create(ctx, ownerID, vaultID, req, blob)
}

func (m *Manager) ListItems(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error) {
	if err := authenticated(ownerID); err != nil {
		return nil, err
	}
	return m.items.List(ctx, ownerID, vaultID)
}

func (m *Manager) GetItem(ctx context.Context, ownerID, itemID uuid.UUID) (model.Item, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Item{}, err
	}
	return m.items.Get(ctx, ownerID, itemID)
}

func (m *Manager) OpenItem(ctx context.Context, ownerID, itemID uuid.UUID) (io.ReadCloser, model.Item, error) {
	if err := authenticated(ownerID); err != nil {
		return nil, model.Item{}, err
	}
	return m.items.Open(ctx, ownerID, itemID)
}

func (m *Manager) RenameItem(ctx context.Context, ownerID, itemID uuid.UUID, name string) (model.Item, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Item{}, err
	}
	return m.items.Rename(ctx, ownerID, itemID, name)
}

func (m *Manager) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if err := authenticated(ownerID); err != nil {
		return err
	}
	return m.items.Delete(ctx, ownerID, itemID)
}

// Usage returns the owner's usage together with the subscription snapshot it
// is judged against.
func (m *Manager) Usage(ctx context.Context, ownerID uuid.UUID) (model.Usage, model.SubscriptionState, error) {
	if err := authenticated(ownerID); err != nil {
		return model.Usage{}, model.SubscriptionState{}, err
	}

	usage, err := m.items.Usage(ctx, ownerID)
	if err != nil {
		return model.Usage{}, model.SubscriptionState{}, err
	}

	return usage, m.entitlements.Current(ownerID), nil
}

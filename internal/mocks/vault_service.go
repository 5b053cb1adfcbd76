package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
)

// VaultService is a mock type for the handler.VaultService type.
type VaultService struct {
	mock.Mock
}

func vault(ret mock.Arguments) (model.Vault, error) {
	var v model.Vault
	if ret.Get(0) != nil {
		v = ret.Get(0).(model.Vault)
	}
	return v, ret.Error(1)
}

func item(ret mock.Arguments) (model.Item, error) {
	var it model.Item
	if ret.Get(0) != nil {
		it = ret.Get(0).(model.Item)
	}
	return it, ret.Error(1)
}

// CreateVault provides a mock function with given fields: ctx, ownerID, params
func (_m *VaultService) CreateVault(ctx context.Context, ownerID uuid.UUID, params model.NewVaultParams) (model.Vault, error) {
	return vault(_m.Called(ctx, ownerID, params))
}

// UpdateVault provides a mock function with given fields: ctx, ownerID, vaultID, patch
func (_m *VaultService) UpdateVault(ctx context.Context, ownerID, vaultID uuid.UUID, patch model.VaultPatch) (model.Vault, error) {
	return vault(_m.Called(ctx, ownerID, vaultID, patch))
}

// GetVault provides a mock function with given fields: ctx, ownerID, vaultID
func (_m *VaultService) GetVault(ctx context.Context, ownerID, vaultID uuid.UUID) (model.Vault, error) {
	return vault(_m.Called(ctx, ownerID, vaultID))
}

// ListVaults provides a mock function with given fields: ctx, ownerID
func (_m *VaultService) ListVaults(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error) {
	ret := _m.Called(ctx, ownerID)

	var vs []model.Vault
	if ret.Get(0) != nil {
		vs = ret.Get(0).([]model.Vault)
	}
	return vs, ret.Error(1)
}

// DeleteVault provides a mock function with given fields: ctx, ownerID, vaultID
func (_m *VaultService) DeleteVault(ctx context.Context, ownerID, vaultID uuid.UUID) error {
	return _m.Called(ctx, ownerID, vaultID).Error(0)
}

// CheckQuota provides a mock function with given fields: ctx, ownerID, candidate
func (_m *VaultService) CheckQuota(ctx context.Context, ownerID uuid.UUID, candidate model.Candidate) (quota.Decision, error) {
	ret := _m.Called(ctx, ownerID, candidate)

	var d quota.Decision
	if ret.Get(0) != nil {
		d = ret.Get(0).(quota.Decision)
	}
	return d, ret.Error(1)
}

// AddItem provides a mock function with given fields: ctx, ownerID, vaultID, req, blob
func (_m *VaultService) AddItem(ctx context.Context, ownerID, vaultID uuid.UUID, req model.NewItem, blob io.Reader) (model.Item, error) {
	return item(_m.Called(ctx, ownerID, vaultID, req, blob))
}

// ListItems provides a mock function with given fields: ctx, ownerID, vaultID
func (_m *VaultService) ListItems(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error) {
	ret := _m.Called(ctx, ownerID, vaultID)

	var items []model.Item
	if ret.Get(0) != nil {
		items = ret.Get(0).([]model.Item)
	}
	return items, ret.Error(1)
}

// GetItem provides a mock function with given fields: ctx, ownerID, itemID
func (_m *VaultService) GetItem(ctx context.Context, ownerID, itemID uuid.UUID) (model.Item, error) {
	return item(_m.Called(ctx, ownerID, itemID))
}

// OpenItem provides a mock function with given fields: ctx, ownerID, itemID
func (_m *VaultService) OpenItem(ctx context.Context, ownerID, itemID uuid.UUID) (io.ReadCloser, model.Item, error) {
	ret := _m.Called(ctx, ownerID, itemID)

	var rc io.ReadCloser
	if ret.Get(0) != nil {
		rc = ret.Get(0).(io.ReadCloser)
	}
	var it model.Item
	if ret.Get(1) != nil {
		it = ret.Get(1).(model.Item)
	}
	return rc, it, ret.Error(2)
}

// RenameItem provides a mock function with given fields: ctx, ownerID, itemID, name
func (_m *VaultService) RenameItem(ctx context.Context, ownerID, itemID uuid.UUID, name string) (model.Item, error) {
	return item(_m.Called(ctx, ownerID, itemID, name))
}

// DeleteItem provides a mock function with given fields: ctx, ownerID, itemID
func (_m *VaultService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	return _m.Called(ctx, ownerID, itemID).Error(0)
}

// Usage provides a mock function with given fields: ctx, ownerID
func (_m *VaultService) Usage(ctx context.Context, ownerID uuid.UUID) (model.Usage, model.SubscriptionState, error) {
	ret := _m.Called(ctx, ownerID)

	var u model.Usage
	if ret.Get(0) != nil {
		u = ret.Get(0).(model.Usage)
	}
	var s model.SubscriptionState
	if ret.Get(1) != nil {
		s = ret.Get(1).(model.SubscriptionState)
	}
	return u, s, ret.Error(2)
}

// NewVaultService creates a new instance of VaultService. It also registers a cleanup function to assert the mocks expectations.
func NewVaultService(t interface {
	mock.TestingT
	Cleanup(func())
}) *VaultService {
	m := &VaultService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

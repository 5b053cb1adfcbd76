package model

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxVaultNameLen        = 255
	maxVaultDescriptionLen = 2000
	maxVaultColorLen       = 32
)

// VaultStore defines persistence operations for vault metadata.
// Every method is scoped to ownerID.
type VaultStore interface {
	Create(ctx context.Context, vault Vault) (Vault, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Vault, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch VaultPatch) (Vault, error)
	Touch(ctx context.Context, ownerID, id uuid.UUID) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vault, error)
}

// Vault is a named container of media items owned by a single user.
type Vault struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// ItemCount is computed by the store from item rows.
	ItemCount int
	// IsLocked is reserved and always false.
	IsLocked bool
}

// LastAccessed is the last time the vault was modified.
func (v Vault) LastAccessed() time.Time {
	return v.UpdatedAt
}

// StoragePrefix is the object-store prefix holding every blob of the vault.
func (v Vault) StoragePrefix() string {
	return VaultPrefix(v.OwnerID, v.ID)
}

// VaultPrefix returns "{ownerID}/{vaultID}/".
func VaultPrefix(ownerID, vaultID uuid.UUID) string {
	return ownerID.String() + "/" + vaultID.String() + "/"
}

// VaultPatch holds a partial vault update. Nil fields are left unchanged.
type VaultPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// Empty reports whether the patch changes no field.
func (p VaultPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Color == nil
}

// Validate checks the supplied fields.
func (p VaultPatch) Validate() error {
	if p.Name != nil {
		if err := validateVaultName(*p.Name); err != nil {
			return err
		}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > maxVaultDescriptionLen {
		return NewValidationError("description", "too long")
	}
	if p.Color != nil && utf8.RuneCountInString(*p.Color) > maxVaultColorLen {
		return NewValidationError("color", "too long")
	}
	return nil
}

// NewVaultParams contains the user-supplied fields of a new vault.
type NewVaultParams struct {
	Name        string
	Description string
	Color       string
}

// Validate checks the fields of a new vault.
func (p NewVaultParams) Validate() error {
	return VaultPatch{Name: &p.Name, Description: &p.Description, Color: &p.Color}.Validate()
}

func validateVaultName(name string) error {
	if name == "" {
		return NewValidationError("name", "required")
	}
	if utf8.RuneCountInString(name) > maxVaultNameLen {
		return NewValidationError("name", "too long (max 255 characters)")
	}
	return nil
}

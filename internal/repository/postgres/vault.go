package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/mediavault-server/internal/model"
)

var _ model.VaultStore = (*VaultRepository)(nil)

const vaultColumns = `v.id, v.owner_id, v.name, v.description, v.color, v.created_at, v.updated_at`

type VaultRepository struct {
	db querier
}

func NewVaultRepository(db *Connection) *VaultRepository {
	return &VaultRepository{
		db: db,
	}
}

func (r *VaultRepository) Create(ctx context.Context, vault model.Vault) (model.Vault, error) {
	query := `
		INSERT INTO vaults AS v (id, owner_id, name, description, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + vaultColumns + `, 0`

	saved, err := scanVault(r.db.QueryRow(ctx, query,
		vault.ID, vault.OwnerID, vault.Name, vault.Description, vault.Color,
	))
	if err != nil {
		return model.Vault{}, fmt.Errorf("failed to create vault: %w", err)
	}

	return saved, nil
}

func (r *VaultRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Vault, error) {
	query := `
		SELECT ` + vaultColumns + `,
		       (SELECT COUNT(*) FROM items i WHERE i.vault_id = v.id)
		FROM vaults v
		WHERE v.id = $1 AND v.owner_id = $2`

	vault, err := scanVault(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vault{}, model.ErrNotFound
		}
		return model.Vault{}, fmt.Errorf("failed to get vault by id: %w", err)
	}

	return vault, nil
}

func (r *VaultRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.VaultPatch) (model.Vault, error) {
	query := `
		UPDATE vaults AS v
		SET name = COALESCE($3, v.name),
		    description = COALESCE($4, v.description),
		    color = COALESCE($5, v.color),
		    updated_at = NOW()
		WHERE v.id = $1 AND v.owner_id = $2
		RETURNING ` + vaultColumns + `,
		          (SELECT COUNT(*) FROM items i WHERE i.vault_id = v.id)`

	vault, err := scanVault(r.db.QueryRow(ctx, query, id, ownerID, patch.Name, patch.Description, patch.Color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vault{}, model.ErrNotFound
		}
		return model.Vault{}, fmt.Errorf("failed to update vault: %w", err)
	}

	return vault, nil
}

func (r *VaultRepository) Touch(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `UPDATE vaults SET updated_at = NOW() WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to touch vault: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes the vault row. Item rows go with it through ON DELETE CASCADE.
func (r *VaultRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM vaults WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete vault: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *VaultRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error) {
	query := `
		SELECT ` + vaultColumns + `, COUNT(i.id)
		FROM vaults v
		LEFT JOIN items i ON i.vault_id = v.id
		WHERE v.owner_id = $1
		GROUP BY v.id
		ORDER BY v.updated_at DESC, v.id DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	defer rows.Close()

	vaults := []model.Vault{}
	for rows.Next() {
		vault, err := scanVault(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vault: %w", err)
		}
		vaults = append(vaults, vault)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}

	return vaults, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVault(row scanner) (model.Vault, error) {
	var (
		vault model.Vault
		count int64
	)
	err := row.Scan(
		&vault.ID, &vault.OwnerID, &vault.Name, &vault.Description, &vault.Color,
		&vault.CreatedAt, &vault.UpdatedAt, &count,
	)
	if err != nil {
		return model.Vault{}, err
	}
	vault.ItemCount = int(count)
	return vault, nil
}

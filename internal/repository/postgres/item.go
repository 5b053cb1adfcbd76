package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/mediavault-server/internal/model"
)

var _ model.ItemStore = (*ItemRepository)(nil)

const (
	itemColumns = `id, vault_id, owner_id, type, name, filename, blob_ref, size_bytes,
		duration_seconds, resolution, format, created_at`

	pgForeignKeyViolation = "23503"
)

type ItemRepository struct {
	db querier
}

func NewItemRepository(db *Connection) *ItemRepository {
	return &ItemRepository{
		db: db,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	row, err := newItemRow(item)
	if err != nil {
		return model.Item{}, err
	}

	query := `
		INSERT INTO items (id, vault_id, owner_id, type, name, filename, blob_ref, size_bytes,
		                   duration_seconds, resolution, format)
		SELECT $1::uuid, v.id, v.owner_id, $4::text, $5::text, $6::text, $7::text, $8::bigint,
		       $9::integer, $10::text, $11::text
		FROM vaults v
		WHERE v.id = $2::uuid AND v.owner_id = $3::uuid
		RETURNING ` + itemColumns

	saved, err := scanItem(r.db.QueryRow(ctx, query,
		row.ID, row.VaultID, row.OwnerID, row.Type, row.Name, row.Filename, row.BlobRef, row.SizeBytes,
		row.DurationSeconds, row.Resolution, row.Format,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	return saved, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND owner_id = $2`

	item, err := scanItem(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to get item by id: %w", err)
	}

	return item, nil
}

func (r *ItemRepository) ListByVault(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE vault_id = $1 AND owner_id = $2
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, vaultID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) ListBlobRefs(ctx context.Context, ownerID, vaultID uuid.UUID) ([]string, error) {
	const query = `SELECT blob_ref FROM items WHERE vault_id = $1 AND owner_id = $2`

	rows, err := r.db.Query(ctx, query, vaultID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan blob ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list blob refs: %w", err)
	}

	return refs, nil
}

func (r *ItemRepository) Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (model.Item, error) {
	query := `UPDATE items SET name = $3 WHERE id = $1 AND owner_id = $2 RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRow(ctx, query, id, ownerID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to rename item: %w", err)
	}

	return item, nil
}

func (r *ItemRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM items WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) UsageByOwner(ctx context.Context, ownerID uuid.UUID) (model.Usage, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE type = 'video'),
		       COALESCE(SUM(duration_seconds), 0)::BIGINT,
		       COALESCE(SUM(size_bytes), 0)::BIGINT
		FROM items
		WHERE owner_id = $1`

	var items, videos, videoSeconds, bytes int64
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&items, &videos, &videoSeconds, &bytes); err != nil {
		return model.Usage{}, fmt.Errorf("failed to compute usage: %w", err)
	}

	return model.Usage{
		Items:        int(items),
		Videos:       int(videos),
		VideoSeconds: int(videoSeconds),
		Bytes:        bytes,
	}, nil
}

// itemRow is the flat column layout of the items table.
type itemRow struct {
	ID              uuid.UUID
	VaultID         uuid.UUID
	OwnerID         uuid.UUID
	Type            string
	Name            string
	Filename        string
	BlobRef         string
	SizeBytes       int64
	DurationSeconds *int32
	Resolution      string
	Format          string
	CreatedAt       time.Time
}

func newItemRow(item model.Item) (itemRow, error) {
	row := itemRow{
		ID:        item.ID,
		VaultID:   item.VaultID,
		OwnerID:   item.OwnerID,
		Type:      string(item.Type()),
		Name:      item.Name,
		Filename:  item.Filename,
		BlobRef:   item.BlobRef,
		SizeBytes: item.SizeBytes,
		CreatedAt: item.CreatedAt,
	}

	switch m := item.Media.(type) {
	case model.Photo:
		row.Resolution = m.Resolution
		row.Format = m.Format
	case model.Video:
		if m.DurationSeconds < 0 || m.DurationSeconds > model.MaxVideoDurationSeconds {
			return itemRow{}, fmt.Errorf("video duration %d out of range", m.DurationSeconds)
		}
		d := int32(m.DurationSeconds)
		row.DurationSeconds = &d
		row.Resolution = m.Resolution
		row.Format = m.Format
	default:
		return itemRow{}, fmt.Errorf("unsupported media %T", item.Media)
	}

	return row, nil
}

func (r itemRow) toModel() (model.Item, error) {
	item := model.Item{
		ID:        r.ID,
		VaultID:   r.VaultID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Filename:  r.Filename,
		BlobRef:   r.BlobRef,
		SizeBytes: r.SizeBytes,
		CreatedAt: r.CreatedAt,
	}

	switch model.ItemType(r.Type) {
	case model.ItemTypePhoto:
		item.Media = model.Photo{Format: r.Format, Resolution: r.Resolution}
	case model.ItemTypeVideo:
		if r.DurationSeconds == nil {
			return model.Item{}, fmt.Errorf("video item %s has no duration", r.ID)
		}
		item.Media = model.Video{DurationSeconds: int(*r.DurationSeconds), Resolution: r.Resolution, Format: r.Format}
	default:
		return model.Item{}, fmt.Errorf("item %s has unknown type %q", r.ID, r.Type)
	}

	return item, nil
}

func scanItem(row scanner) (model.Item, error) {
	var r itemRow
	err := row.Scan(
		&r.ID, &r.VaultID, &r.OwnerID, &r.Type, &r.Name, &r.Filename, &r.BlobRef, &r.SizeBytes,
		&r.DurationSeconds, &r.Resolution, &r.Format, &r.CreatedAt,
	)
	if err != nil {
		return model.Item{}, err
	}
	return r.toModel()
}

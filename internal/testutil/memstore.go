package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/model"
)

// MemDB is an in-memory relational backend with the same ownership filtering
// and vault -> item cascade as the postgres schema.
type MemDB struct {
	mu     sync.Mutex
	vaults map[uuid.UUID]model.Vault
	items  map[uuid.UUID]model.Item
	clock  time.Time
	fail   map[string]error
}

// NewMemDB returns an empty database whose clock starts at a fixed instant and
// advances by one millisecond on every write.
func NewMemDB() *MemDB {
	return &MemDB{
		vaults: make(map[uuid.UUID]model.Vault),
		items:  make(map[uuid.UUID]model.Item),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:   make(map[string]error),
	}
}

// FailOn makes op (for example "items.Create" or "vaults.Delete") return err
// until cleared with a nil err.
func (db *MemDB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.fail, op)
		return
	}
	db.fail[op] = err
}

// Vaults returns the VaultStore view of the database.
func (db *MemDB) Vaults() *MemVaultStore { return &MemVaultStore{db: db} }

// Items returns the ItemStore view of the database.
func (db *MemDB) Items() *MemItemStore { return &MemItemStore{db: db} }

// CountItems returns the number of item rows referencing vaultID.
func (db *MemDB) CountItems(vaultID uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.countItems(vaultID)
}

// ItemRows returns the number of item rows in the database.
func (db *MemDB) ItemRows() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.items)
}

func (db *MemDB) tick() time.Time {
	db.clock = db.clock.Add(time.Millisecond)
	return db.clock
}

func (db *MemDB) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.fail[op]
}

func (db *MemDB) countItems(vaultID uuid.UUID) int {
	n := 0
	for _, it := range db.items {
		if it.VaultID == vaultID {
			n++
		}
	}
	return n
}

func (db *MemDB) withCount(v model.Vault) model.Vault {
	v.ItemCount = db.countItems(v.ID)
	return v
}

var _ model.VaultStore = (*MemVaultStore)(nil)

// MemVaultStore implements model.VaultStore on a MemDB.
type MemVaultStore struct{ db *MemDB }

func (s *MemVaultStore) Create(ctx context.Context, vault model.Vault) (model.Vault, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.Create"); err != nil {
		return model.Vault{}, err
	}
	now := s.db.tick()
	vault.CreatedAt, vault.UpdatedAt = now, now
	vault.ItemCount = 0
	s.db.vaults[vault.ID] = vault
	return vault, nil
}

func (s *MemVaultStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Vault, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.GetByID"); err != nil {
		return model.Vault{}, err
	}
	v, ok := s.db.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return model.Vault{}, model.ErrNotFound
	}
	return s.db.withCount(v), nil
}

func (s *MemVaultStore) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.VaultPatch) (model.Vault, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.Update"); err != nil {
		return model.Vault{}, err
	}
	v, ok := s.db.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return model.Vault{}, model.ErrNotFound
	}
	if patch.Name != nil {
		v.Name = *patch.Name
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Color != nil {
		v.Color = *patch.Color
	}
	v.UpdatedAt = s.db.tick()
	s.db.vaults[id] = v
	return s.db.withCount(v), nil
}

func (s *MemVaultStore) Touch(ctx context.Context, ownerID, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.Touch"); err != nil {
		return err
	}
	v, ok := s.db.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return model.ErrNotFound
	}
	v.UpdatedAt = s.db.tick()
	s.db.vaults[id] = v
	return nil
}

func (s *MemVaultStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.Delete"); err != nil {
		return err
	}
	v, ok := s.db.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return model.ErrNotFound
	}
	delete(s.db.vaults, id)
	for itemID, it := range s.db.items {
		if it.VaultID == id {
			delete(s.db.items, itemID)
		}
	}
	return nil
}

func (s *MemVaultStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "vaults.ListByOwner"); err != nil {
		return nil, err
	}
	var out []model.Vault
	for _, v := range s.db.vaults {
		if v.OwnerID == ownerID {
			out = append(out, s.db.withCount(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

var _ model.ItemStore = (*MemItemStore)(nil)

// MemItemStore implements model.ItemStore on a MemDB.
type MemItemStore struct{ db *MemDB }

func (s *MemItemStore) Create(ctx context.Context, item model.Item) (model.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.Create"); err != nil {
		return model.Item{}, err
	}
	v, ok := s.db.vaults[item.VaultID]
	if !ok || v.OwnerID != item.OwnerID {
		return model.Item{}, model.ErrNotFound
	}
	for _, it := range s.db.items {
		if it.BlobRef == item.BlobRef {
			return model.Item{}, errors.New("duplicate blob_ref")
		}
	}
	item.CreatedAt = s.db.tick()
	s.db.items[item.ID] = item
	return item, nil
}

func (s *MemItemStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.GetByID"); err != nil {
		return model.Item{}, err
	}
	it, ok := s.db.items[id]
	if !ok || it.OwnerID != ownerID {
		return model.Item{}, model.ErrNotFound
	}
	return it, nil
}

func (s *MemItemStore) ListByVault(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.ListByVault"); err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range s.db.items {
		if it.OwnerID == ownerID && it.VaultID == vaultID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (s *MemItemStore) ListBlobRefs(ctx context.Context, ownerID, vaultID uuid.UUID) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.ListBlobRefs"); err != nil {
		return nil, err
	}
	var refs []string
	for _, it := range s.db.items {
		if it.OwnerID == ownerID && it.VaultID == vaultID {
			refs = append(refs, it.BlobRef)
		}
	}
	sort.Strings(refs)
	return refs, nil
}

func (s *MemItemStore) Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (model.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.Rename"); err != nil {
		return model.Item{}, err
	}
	it, ok := s.db.items[id]
	if !ok || it.OwnerID != ownerID {
		return model.Item{}, model.ErrNotFound
	}
	it.Name = name
	s.db.items[id] = it
	return it, nil
}

func (s *MemItemStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.Delete"); err != nil {
		return err
	}
	it, ok := s.db.items[id]
	if !ok || it.OwnerID != ownerID {
		return model.ErrNotFound
	}
	delete(s.db.items, id)
	return nil
}

func (s *MemItemStore) UsageByOwner(ctx context.Context, ownerID uuid.UUID) (model.Usage, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.check(ctx, "items.UsageByOwner"); err != nil {
		return model.Usage{}, err
	}
	var u model.Usage
	for _, it := range s.db.items {
		if it.OwnerID != ownerID {
			continue
		}
		u.Items++
		u.Bytes += it.SizeBytes
		if v, ok := it.Video(); ok {
			u.Videos++
			u.VideoSeconds += v.DurationSeconds
		}
	}
	return u, nil
}

var _ model.ObjectStore = (*MemObjectStore)(nil)

// MemObjectStore is an in-memory object store with failure injection.
type MemObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// PutErr, GetErr and ListErr are returned by the matching call when set.
	PutErr  error
	GetErr  error
	ListErr error

	removeFailures map[string]int
}

// NewMemObjectStore returns an empty object store.
func NewMemObjectStore() *MemObjectStore {
	return &MemObjectStore{
		objects:        make(map[string][]byte),
		removeFailures: make(map[string]int),
	}
}

// FailRemove makes Remove fail for key the next times calls. A negative
// times fails forever.
func (s *MemObjectStore) FailRemove(key string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFailures[key] = times
}

// Keys returns the stored keys under prefix in lexical order.
func (s *MemObjectStore) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Seed stores data under key without going through Put.
func (s *MemObjectStore) Seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

func (s *MemObjectStore) Put(ctx context.Context, key string, reader io.Reader, _ int64) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemObjectStore) List(ctx context.Context, prefix string) ([]model.ObjectInfo, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.ObjectInfo
	for _, k := range s.Keys(prefix) {
		s.mu.Lock()
		out = append(out, model.ObjectInfo{Key: k, Size: int64(len(s.objects[k]))})
		s.mu.Unlock()
	}
	return out, nil
}

func (s *MemObjectStore) Remove(ctx context.Context, keys []string) map[string]error {
	s.mu.Lock()
	defer s.mu.Unlock()
	failed := make(map[string]error)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			failed[k] = err
			continue
		}
		if n, ok := s.removeFailures[k]; ok && n != 0 {
			if n > 0 {
				s.removeFailures[k] = n - 1
			}
			failed[k] = errors.New("injected remove failure")
			continue
		}
		delete(s.objects, k)
	}
	return failed
}

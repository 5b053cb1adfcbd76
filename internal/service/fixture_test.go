package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
	"github.com/dtroode/mediavault-server/internal/testutil"
)

var (
	freeLimits    = quota.Limits{MaxItems: 100, MaxVideos: 3, MaxVideoSeconds: 900, MaxItemBytes: 1 << 20}
	premiumLimits = quota.Limits{MaxItems: 100000, MaxItemBytes: 1 << 30}
)

// stubEntitlements returns a fixed state per owner and "unknown" otherwise.
type stubEntitlements struct {
	mu     sync.Mutex
	states map[uuid.UUID]model.SubscriptionState
}

func (s *stubEntitlements) Current(ownerID uuid.UUID) model.SubscriptionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[ownerID]
}

func (s *stubEntitlements) set(ownerID uuid.UUID, tier model.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[ownerID] = model.SubscriptionState{Tier: tier, Known: true, RefreshedAt: time.Now()}
}

type fixture struct {
	db           *testutil.MemDB
	blobs        *testutil.MemObjectStore
	entitlements *stubEntitlements
	vaults       *Vaults
	items        *Items
	manager      *Manager
	owner        uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewMemDB()
	blobs := testutil.NewMemObjectStore()
	ents := &stubEntitlements{states: make(map[uuid.UUID]model.SubscriptionState)}
	log := testutil.MakeNoopLogger()

	vaults := NewVaults(db.Vaults(), db.Items(), blobs, log)
	items := NewItems(db.Items(), db.Vaults(), blobs, log)
	manager := NewManager(vaults, items, quota.NewPolicy(freeLimits, premiumLimits), ents, log)

	owner := uuid.New()
	ents.set(owner, model.TierFree)

	return &fixture{
		db:           db,
		blobs:        blobs,
		entitlements: ents,
		vaults:       vaults,
		items:        items,
		manager:      manager,
		owner:        owner,
	}
}

func mustPhoto(t *testing.T, name string, size int64) model.NewItem {
	t.Helper()
	req, err := model.NewPhotoItem(name, name+".JPG", size, model.Photo{Format: "jpeg", Resolution: "4032x3024"})
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	return req
}

func mustVideo(t *testing.T, name string, size int64, seconds int) model.NewItem {
	t.Helper()
	req, err := model.NewVideoItem(name, name+".mov", size, model.Video{DurationSeconds: seconds, Resolution: "1920x1080", Format: "h264"})
	if err != nil {
		t.Fatalf("video: %v", err)
	}
	return req
}

package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tier is a subscription level.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// SubscriptionState is the entitlement snapshot used for quota decisions.
// Known is false when the tier could not be established or is stale.
type SubscriptionState struct {
	Tier        Tier
	Known       bool
	RefreshedAt time.Time
}

// Subscription is a row written by the billing collaborator.
type Subscription struct {
	OwnerID   uuid.UUID
	Tier      Tier
	UpdatedAt time.Time
}

// SubscriptionSource reads subscriptions. The core never writes them.
type SubscriptionSource interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}

// Usage is the aggregate of items already stored by one owner.
type Usage struct {
	Items        int
	Videos       int
	VideoSeconds int
	Bytes        int64
}

// Candidate is the item being admitted. Size and duration may be zero when
// the check happens before capture starts.
type Candidate struct {
	Type            ItemType
	SizeBytes       int64
	DurationSeconds int
}

// Entitlements returns the latest subscription snapshot of an owner.
type Entitlements interface {
	Current(ownerID uuid.UUID) SubscriptionState
}

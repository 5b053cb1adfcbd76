package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/mediavault-server/internal/model"
)

var _ model.SubscriptionSource = (*SubscriptionRepository)(nil)

// SubscriptionRepository reads tiers written by the billing collaborator.
type SubscriptionRepository struct {
	db querier
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	const query = `SELECT owner_id, tier, updated_at FROM subscriptions`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var (
			sub  model.Subscription
			tier string
		)
		if err := rows.Scan(&sub.OwnerID, &tier, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.Tier = model.Tier(tier)
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return subs, nil
}

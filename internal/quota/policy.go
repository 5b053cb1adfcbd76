// Package quota decides whether a new item may be admitted for an owner.
//
// The decision is a pure function of the candidate item, the owner's current
// usage and the subscription snapshot. It performs no I/O so it can run
// synchronously before a capture starts.
package quota

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/dtroode/mediavault-server/internal/model"
)

// ReasonEntitlementUnknown is returned when the tier cannot be trusted.
const ReasonEntitlementUnknown = "entitlement unknown"

// Limits are the ceilings of one tier. A zero value disables that ceiling.
type Limits struct {
	MaxItems        int
	MaxVideos       int
	MaxVideoSeconds int
	MaxItemBytes    int64
}

// Decision is the result of an admission check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns a *model.QuotaExceededError for a denial and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &model.QuotaExceededError{Reason: d.Reason}
}

// Policy holds per-tier limits.
type Policy struct {
	free    Limits
	premium Limits
}

// NewPolicy creates a Policy with the given free and premium limits.
func NewPolicy(free, premium Limits) Policy {
	return Policy{free: free, premium: premium}
}

// LimitsFor returns the limits applied to tier.
func (p Policy) LimitsFor(tier model.Tier) (Limits, bool) {
	switch tier {
	case model.TierFree:
		return p.free, true
	case model.TierPremium:
		return p.premium, true
	default:
		return Limits{}, false
	}
}

// CanAdd reports whether candidate may be stored given usage and sub.
// Unknown or unrecognised entitlement always denies.
func (p Policy) CanAdd(candidate model.Candidate, usage model.Usage, sub model.SubscriptionState) Decision {
	if !sub.Known {
		return deny(ReasonEntitlementUnknown)
	}
	limits, ok := p.LimitsFor(sub.Tier)
	if !ok {
		return deny(ReasonEntitlementUnknown)
	}
	if !candidate.Type.Valid() {
		return deny(fmt.Sprintf("unsupported item type %q", candidate.Type))
	}

	suffix := ""
	if sub.Tier == model.TierFree {
		suffix = "; upgrade to premium to add more"
	}

	if limits.MaxItems > 0 && usage.Items >= limits.MaxItems {
		return deny(fmt.Sprintf("%s plan allows up to %d items%s", sub.Tier, limits.MaxItems, suffix))
	}
	if limits.MaxItemBytes > 0 && candidate.SizeBytes > limits.MaxItemBytes {
		return deny(fmt.Sprintf("%s plan allows items up to %s%s", sub.Tier, humanize.IBytes(uint64(limits.MaxItemBytes)), suffix))
	}

	if candidate.Type == model.ItemTypeVideo {
		if limits.MaxVideos > 0 && usage.Videos >= limits.MaxVideos {
			return deny(fmt.Sprintf("%s plan allows up to %d videos%s", sub.Tier, limits.MaxVideos, suffix))
		}
		if limits.MaxVideoSeconds > 0 {
			if usage.VideoSeconds >= limits.MaxVideoSeconds ||
				candidate.DurationSeconds > limits.MaxVideoSeconds-usage.VideoSeconds {
				return deny(fmt.Sprintf("%s plan allows up to %d seconds of video%s", sub.Tier, limits.MaxVideoSeconds, suffix))
			}
		}
	}

	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

package handler

import (
	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/mediafmt"
	"github.com/dtroode/mediavault-server/internal/model"
)

func toProtoVault(v model.Vault) *vaultpb.Vault {
	return &vaultpb.Vault{
		ID:           v.ID.String(),
		Name:         v.Name,
		Description:  v.Description,
		Color:        v.Color,
		ItemCount:    v.ItemCount,
		IsLocked:     v.IsLocked,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		LastAccessed: v.LastAccessed(),
	}
}

func toProtoItem(it model.Item) *vaultpb.Item {
	out := &vaultpb.Item{
		ID:        it.ID.String(),
		VaultID:   it.VaultID.String(),
		Type:      string(it.Type()),
		Name:      it.Name,
		Filename:  it.Filename,
		SizeBytes: it.SizeBytes,
		Size:      mediafmt.FormatSize(it.SizeBytes),
		CreatedAt: it.CreatedAt,
	}

	switch m := it.Media.(type) {
	case model.Photo:
		out.Resolution = m.Resolution
		out.Format = m.Format
	case model.Video:
		out.Resolution = m.Resolution
		out.Format = m.Format
		out.DurationSeconds = m.DurationSeconds
		out.Duration = mediafmt.FormatDuration(m.DurationSeconds)
	}

	return out
}

// toNewItem validates the wire request. Size is taken from the payload.
func toNewItem(req *vaultpb.AddItemRequest) (model.NewItem, error) {
	size := int64(len(req.Data))

	switch model.ItemType(req.Type) {
	case model.ItemTypePhoto:
		return model.NewPhotoItem(req.Name, req.OriginalName, size, model.Photo{
			Format:     req.Format,
			Resolution: req.Resolution,
		})
	case model.ItemTypeVideo:
		return model.NewVideoItem(req.Name, req.OriginalName, size, model.Video{
			DurationSeconds: req.DurationSeconds,
			Resolution:      req.Resolution,
			Format:          req.Format,
		})
	default:
		return model.NewItem{}, model.NewValidationError("type", "must be photo or video")
	}
}

func toProtoUsage(u model.Usage, sub model.SubscriptionState) *vaultpb.GetUsageResponse {
	resp := &vaultpb.GetUsageResponse{
		TierKnown:     sub.Known,
		Items:         u.Items,
		Videos:        u.Videos,
		VideoSeconds:  u.VideoSeconds,
		VideoDuration: mediafmt.FormatDuration(u.VideoSeconds),
		Bytes:         u.Bytes,
		Size:          mediafmt.FormatSize(u.Bytes),
	}
	if sub.Known {
		resp.Tier = string(sub.Tier)
	}
	return resp
}

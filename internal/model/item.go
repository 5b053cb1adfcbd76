package model

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxItemNameLen = 255

// MaxVideoDurationSeconds is the longest duration a stored video can carry.
const MaxVideoDurationSeconds = math.MaxInt32

// ItemStore defines persistence operations for item metadata.
// Every method is scoped to ownerID.
type ItemStore interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Item, error)
	ListByVault(ctx context.Context, ownerID, vaultID uuid.UUID) ([]Item, error)
	ListBlobRefs(ctx context.Context, ownerID, vaultID uuid.UUID) ([]string, error)
	Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (Item, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	UsageByOwner(ctx context.Context, ownerID uuid.UUID) (Usage, error)
}

// ItemType enumerates media kinds.
type ItemType string

const (
	// ItemTypePhoto is a still image.
	ItemTypePhoto ItemType = "photo"
	// ItemTypeVideo is a video clip.
	ItemTypeVideo ItemType = "video"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypePhoto || t == ItemTypeVideo
}

// Media is the type-specific part of an item: either Photo or Video.
type Media interface {
	Type() ItemType
	isMedia()
}

// Photo carries photo-specific fields.
type Photo struct {
	Format     string
	Resolution string
}

// Type implements Media.
func (Photo) Type() ItemType { return ItemTypePhoto }
func (Photo) isMedia()       {}

// Video carries video-specific fields.
type Video struct {
	DurationSeconds int
	Resolution      string
	Format          string
}

// Type implements Media.
func (Video) Type() ItemType { return ItemTypeVideo }
func (Video) isMedia()       {}

// Item is a single photo or video and the reference to its encrypted blob.
type Item struct {
	ID        uuid.UUID
	VaultID   uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Filename  string
	BlobRef   string
	SizeBytes int64
	CreatedAt time.Time
	Media     Media
}

// Type returns the media kind of the item.
func (i Item) Type() ItemType {
	if i.Media == nil {
		return ""
	}
	return i.Media.Type()
}

// Video returns the video fields and true when the item is a video.
func (i Item) Video() (Video, bool) {
	v, ok := i.Media.(Video)
	return v, ok
}

// BlobKey returns the object-store key "{ownerID}/{vaultID}/{filename}".
func BlobKey(ownerID, vaultID uuid.UUID, filename string) string {
	return VaultPrefix(ownerID, vaultID) + filename
}

// NewItem is a validated request to store a new item. Build it with
// NewPhotoItem or NewVideoItem.
type NewItem struct {
	Name         string
	OriginalName string
	SizeBytes    int64
	Media        Media
}

// Type returns the media kind of the request.
func (n NewItem) Type() ItemType {
	return n.Media.Type()
}

// Candidate describes the item for quota admission.
func (n NewItem) Candidate() Candidate {
	c := Candidate{Type: n.Type(), SizeBytes: n.SizeBytes}
	if v, ok := n.Media.(Video); ok {
		c.DurationSeconds = v.DurationSeconds
	}
	return c
}

// NewPhotoItem validates and builds a photo request.
func NewPhotoItem(name, originalName string, sizeBytes int64, photo Photo) (NewItem, error) {
	if err := validateItemCommon(name, sizeBytes); err != nil {
		return NewItem{}, err
	}
	return NewItem{Name: name, OriginalName: originalName, SizeBytes: sizeBytes, Media: photo}, nil
}

// NewVideoItem validates and builds a video request.
func NewVideoItem(name, originalName string, sizeBytes int64, video Video) (NewItem, error) {
	if err := validateItemCommon(name, sizeBytes); err != nil {
		return NewItem{}, err
	}
	if video.DurationSeconds < 0 {
		return NewItem{}, NewValidationError("duration_seconds", "must be >= 0")
	}
	if video.DurationSeconds > MaxVideoDurationSeconds {
		return NewItem{}, NewValidationError("duration_seconds", fmt.Sprintf("must be <= %d", MaxVideoDurationSeconds))
	}
	if video.Format == "" {
		return NewItem{}, NewValidationError("format", "required for video")
	}
	return NewItem{Name: name, OriginalName: originalName, SizeBytes: sizeBytes, Media: video}, nil
}

// ValidateItemName checks an item display name.
func ValidateItemName(name string) error {
	if name == "" {
		return NewValidationError("name", "required")
	}
	if utf8.RuneCountInString(name) > maxItemNameLen {
		return NewValidationError("name", "too long (max 255 characters)")
	}
	return nil
}

func validateItemCommon(name string, sizeBytes int64) error {
	if err := ValidateItemName(name); err != nil {
		return err
	}
	if sizeBytes < 0 {
		return NewValidationError("size_bytes", "must be >= 0")
	}
	return nil
}

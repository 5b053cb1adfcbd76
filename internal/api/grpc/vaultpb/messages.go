package vaultpb

import "time"

type Vault struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	ItemCount    int       `json:"item_count"`
	IsLocked     bool      `json:"is_locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

type CreateVaultRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// UpdateVaultRequest changes only the fields that are present.
type UpdateVaultRequest struct {
	VaultID     string  `json:"vault_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type GetVaultRequest struct {
	VaultID string `json:"vault_id"`
}

type ListVaultsRequest struct{}

type ListVaultsResponse struct {
	Vaults []Vault `json:"vaults"`
}

type DeleteVaultRequest struct {
	VaultID string `json:"vault_id"`
}

// DeleteVaultResponse lists blobs that could not be removed. The vault is
// deleted even when FailedKeys is not empty.
type DeleteVaultResponse struct {
	FailedKeys []string `json:"failed_keys,omitempty"`
	Warning    string   `json:"warning,omitempty"`
}

type CheckQuotaRequest struct {
	Type            string `json:"type"`
	SizeBytes       int64  `json:"size_bytes,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

type CheckQuotaResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type Item struct {
	ID              string    `json:"id"`
	VaultID         string    `json:"vault_id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	Filename        string    `json:"filename"`
	SizeBytes       int64     `json:"size_bytes"`
	Size            string    `json:"size"`
	CreatedAt       time.Time `json:"created_at"`
	Resolution      string    `json:"resolution,omitempty"`
	Format          string    `json:"format,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Duration        string    `json:"duration,omitempty"`
}

// AddItemRequest carries an already encrypted payload.
type AddItemRequest struct {
	VaultID         string `json:"vault_id"`
	Type            string `json:"type"`
	Name            string `json:"name"`
	OriginalName    string `json:"original_name,omitempty"`
	Data            []byte `json:"data"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	Format          string `json:"format,omitempty"`
}

type ListItemsRequest struct {
	VaultID string `json:"vault_id"`
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
}

type GetItemRequest struct {
	ItemID string `json:"item_id"`
}

type DownloadItemRequest struct {
	ItemID string `json:"item_id"`
}

type DownloadItemResponse struct {
	Item Item   `json:"item"`
	Data []byte `json:"data"`
}

type RenameItemRequest struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

type DeleteItemRequest struct {
	ItemID string `json:"item_id"`
}

type GetUsageRequest struct{}

type GetUsageResponse struct {
	Tier          string `json:"tier,omitempty"`
	TierKnown     bool   `json:"tier_known"`
	Items         int    `json:"items"`
	Videos        int    `json:"videos"`
	VideoSeconds  int    `json:"video_seconds"`
	VideoDuration string `json:"video_duration"`
	Bytes         int64  `json:"bytes"`
	Size          string `json:"size"`
}

type StartCaptureRequest struct {
	VaultID string `json:"vault_id"`
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
}

type CaptureSession struct {
	SessionID string    `json:"session_id"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CompleteCaptureRequest carries the encrypted recording of a session.
type CompleteCaptureRequest struct {
	SessionID       string `json:"session_id"`
	OriginalName    string `json:"original_name,omitempty"`
	Data            []byte `json:"data"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	Format          string `json:"format,omitempty"`
}

type AbortCaptureRequest struct {
	SessionID string `json:"session_id"`
}

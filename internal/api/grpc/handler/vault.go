package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
	"github.com/dtroode/mediavault-server/internal/service"
)

// PartialDeleteHeader carries blob keys left behind by an item delete that
// otherwise succeeded.
const PartialDeleteHeader = "x-partial-delete-keys"

// VaultService defines business operations for vaults and items.
type VaultService interface {
	CreateVault(ctx context.Context, ownerID uuid.UUID, params model.NewVaultParams) (model.Vault, error)
	UpdateVault(ctx context.Context, ownerID, vaultID uuid.UUID, patch model.VaultPatch) (model.Vault, error)
	GetVault(ctx context.Context, ownerID, vaultID uuid.UUID) (model.Vault, error)
	ListVaults(ctx context.Context, ownerID uuid.UUID) ([]model.Vault, error)
	DeleteVault(ctx context.Context, ownerID, vaultID uuid.UUID) error
	CheckQuota(ctx context.Context, ownerID uuid.UUID, candidate model.Candidate) (quota.Decision, error)
	AddItem(ctx context.Context, ownerID, vaultID uuid.UUID, req model.NewItem, blob io.Reader) (model.Item, error)
	ListItems(ctx context.Context, ownerID, vaultID uuid.UUID) ([]model.Item, error)
	GetItem(ctx context.Context, ownerID, itemID uuid.UUID) (model.Item, error)
	OpenItem(ctx context.Context, ownerID, itemID uuid.UUID) (io.ReadCloser, model.Item, error)
	RenameItem(ctx context.Context, ownerID, itemID uuid.UUID, name string) (model.Item, error)
	DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error
	Usage(ctx context.Context, ownerID uuid.UUID) (model.Usage, model.SubscriptionState, error)
}

// CaptureService runs capture sessions on behalf of capture devices.
type CaptureService interface {
	StartCapture(ctx context.Context, req service.CaptureRequest) (*service.CaptureSession, error)
	CompleteCapture(ctx context.Context, ownerID, sessionID uuid.UUID, event model.CaptureEvent) (model.Item, error)
	AbortCapture(ctx context.Context, ownerID, sessionID uuid.UUID) error
}

// Vaults handles gRPC endpoints for vaults, their items and capture sessions.
type Vaults struct {
	vaultpb.UnimplementedVaultsServer
	vaultService   VaultService
	captureService CaptureService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewVaults creates a new Vaults handler.
func NewVaults(vaultService VaultService, captureService CaptureService, contextManager model.ContextManager, logger *logger.Logger) *Vaults {
	return &Vaults{
		vaultService:   vaultService,
		captureService: captureService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Vaults) CreateVault(ctx context.Context, req *vaultpb.CreateVaultRequest) (*vaultpb.Vault, error) {
	ownerID := h.ownerID(ctx)

	vault, err := h.vaultService.CreateVault(ctx, ownerID, model.NewVaultParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logFailure("create vault", ownerID, err)
		return nil, handleError(err)
	}

	return toProtoVault(vault), nil
}

func (h *Vaults) UpdateVault(ctx context.Context, req *vaultpb.UpdateVaultRequest) (*vaultpb.Vault, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}

	vault, err := h.vaultService.UpdateVault(ctx, ownerID, vaultID, model.VaultPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logFailure("update vault", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	return toProtoVault(vault), nil
}

func (h *Vaults) GetVault(ctx context.Context, req *vaultpb.GetVaultRequest) (*vaultpb.Vault, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}

	vault, err := h.vaultService.GetVault(ctx, ownerID, vaultID)
	if err != nil {
		h.logFailure("get vault", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	return toProtoVault(vault), nil
}

func (h *Vaults) ListVaults(ctx context.Context, _ *vaultpb.ListVaultsRequest) (*vaultpb.ListVaultsResponse, error) {
	ownerID := h.ownerID(ctx)

	vaults, err := h.vaultService.ListVaults(ctx, ownerID)
	if err != nil {
		h.logFailure("list vaults", ownerID, err)
		return nil, handleError(err)
	}

	resp := &vaultpb.ListVaultsResponse{Vaults: make([]vaultpb.Vault, 0, len(vaults))}
	for _, v := range vaults {
		resp.Vaults = append(resp.Vaults, *toProtoVault(v))
	}
	return resp, nil
}

// DeleteVault reports blobs that could not be removed as a warning on an
// otherwise successful response.
func (h *Vaults) DeleteVault(ctx context.Context, req *vaultpb.DeleteVaultRequest) (*vaultpb.DeleteVaultResponse, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}

	err = h.vaultService.DeleteVault(ctx, ownerID, vaultID)
	var partial *model.PartialDeleteError
	if errors.As(err, &partial) {
		h.logger.Warn("Vaults handler: vault deleted with leftover blobs",
			"owner_id", ownerID,
			"vault_id", vaultID,
			"error", partial)
		return &vaultpb.DeleteVaultResponse{
			FailedKeys: partial.FailedKeys(),
			Warning:    partial.Error(),
		}, nil
	}
	if err != nil {
		h.logFailure("delete vault", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	return &vaultpb.DeleteVaultResponse{}, nil
}

func (h *Vaults) CheckQuota(ctx context.Context, req *vaultpb.CheckQuotaRequest) (*vaultpb.CheckQuotaResponse, error) {
	ownerID := h.ownerID(ctx)
	itemType := model.ItemType(req.Type)
	if !itemType.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid type: %q", req.Type)
	}

	decision, err := h.vaultService.CheckQuota(ctx, ownerID, model.Candidate{
		Type:            itemType,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		h.logFailure("check quota", ownerID, err)
		return nil, handleError(err)
	}

	return &vaultpb.CheckQuotaResponse{Allowed: decision.Allowed, Reason: decision.Reason}, nil
}

func (h *Vaults) AddItem(ctx context.Context, req *vaultpb.AddItemRequest) (*vaultpb.Item, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}

	newItem, err := toNewItem(req)
	if err != nil {
		return nil, handleError(err)
	}

	item, err := h.vaultService.AddItem(ctx, ownerID, vaultID, newItem, bytes.NewReader(req.Data))
	if err != nil {
		h.logFailure("add item", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	return toProtoItem(item), nil
}

func (h *Vaults) ListItems(ctx context.Context, req *vaultpb.ListItemsRequest) (*vaultpb.ListItemsResponse, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}

	items, err := h.vaultService.ListItems(ctx, ownerID, vaultID)
	if err != nil {
		h.logFailure("list items", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	resp := &vaultpb.ListItemsResponse{Items: make([]vaultpb.Item, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, *toProtoItem(it))
	}
	return resp, nil
}

func (h *Vaults) GetItem(ctx context.Context, req *vaultpb.GetItemRequest) (*vaultpb.Item, error) {
	ownerID := h.ownerID(ctx)
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}

	item, err := h.vaultService.GetItem(ctx, ownerID, itemID)
	if err != nil {
		h.logFailure("get item", ownerID, err, "item_id", itemID)
		return nil, handleError(err)
	}

	return toProtoItem(item), nil
}

func (h *Vaults) DownloadItem(ctx context.Context, req *vaultpb.DownloadItemRequest) (*vaultpb.DownloadItemResponse, error) {
	ownerID := h.ownerID(ctx)
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}

	reader, item, err := h.vaultService.OpenItem(ctx, ownerID, itemID)
	if err != nil {
		h.logFailure("download item", ownerID, err, "item_id", itemID)
		return nil, handleError(err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			h.logger.Warn("Vaults handler: failed to close blob reader", "item_id", itemID, "error", err)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		h.logFailure("read item blob", ownerID, err, "item_id", itemID)
		return nil, handleError(model.NewTransientError("failed to read blob", err))
	}

	return &vaultpb.DownloadItemResponse{Item: *toProtoItem(item), Data: data}, nil
}

func (h *Vaults) RenameItem(ctx context.Context, req *vaultpb.RenameItemRequest) (*vaultpb.Item, error) {
	ownerID := h.ownerID(ctx)
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}

	item, err := h.vaultService.RenameItem(ctx, ownerID, itemID, req.Name)
	if err != nil {
		h.logFailure("rename item", ownerID, err, "item_id", itemID)
		return nil, handleError(err)
	}

	return toProtoItem(item), nil
}

// DeleteItem succeeds when the item row is gone. Blobs left behind are
// reported in the PartialDeleteHeader response header.
func (h *Vaults) DeleteItem(ctx context.Context, req *vaultpb.DeleteItemRequest) (*emptypb.Empty, error) {
	ownerID := h.ownerID(ctx)
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}

	err = h.vaultService.DeleteItem(ctx, ownerID, itemID)
	var partial *model.PartialDeleteError
	if errors.As(err, &partial) && partial.MetadataErr == nil {
		h.logger.Warn("Vaults handler: item deleted with leftover blob",
			"owner_id", ownerID,
			"item_id", itemID,
			"error", partial)
		md := metadata.Pairs(PartialDeleteHeader, strings.Join(partial.FailedKeys(), ","))
		if hdrErr := grpc.SetHeader(ctx, md); hdrErr != nil {
			h.logger.Debug("Vaults handler: failed to set header", "error", hdrErr)
		}
		return &emptypb.Empty{}, nil
	}
	if err != nil {
		h.logFailure("delete item", ownerID, err, "item_id", itemID)
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

func (h *Vaults) GetUsage(ctx context.Context, _ *vaultpb.GetUsageRequest) (*vaultpb.GetUsageResponse, error) {
	ownerID := h.ownerID(ctx)

	usage, sub, err := h.vaultService.Usage(ctx, ownerID)
	if err != nil {
		h.logFailure("get usage", ownerID, err)
		return nil, handleError(err)
	}

	return toProtoUsage(usage, sub), nil
}

// ownerID returns the authenticated owner or uuid.Nil, which the service
// rejects as not authenticated.
func (h *Vaults) ownerID(ctx context.Context) uuid.UUID {
	ownerID, ok := h.contextManager.GetOwnerIDFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return ownerID
}

func (h *Vaults) logFailure(op string, ownerID uuid.UUID, err error, args ...any) {
	args = append([]any{"owner_id", ownerID, "error", err.Error()}, args...)
	h.logger.Error("Vaults handler: "+op+" failed", args...)
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s: %q", field, value)
	}
	return id, nil
}

package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/service"
)

// StartCapture checks quota and opens a capture session. A denial is
// returned as ResourceExhausted and leaves no session open.
func (h *Vaults) StartCapture(ctx context.Context, req *vaultpb.StartCaptureRequest) (*vaultpb.CaptureSession, error) {
	ownerID := h.ownerID(ctx)
	vaultID, err := parseID("vault_id", req.VaultID)
	if err != nil {
		return nil, err
	}
	itemType := model.ItemType(req.Type)
	if !itemType.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid type: %q", req.Type)
	}

	// The vault must exist before the device starts recording.
	if _, err := h.vaultService.GetVault(ctx, ownerID, vaultID); err != nil {
		return nil, handleError(err)
	}

	session, err := h.captureService.StartCapture(ctx, service.CaptureRequest{
		OwnerID: ownerID,
		VaultID: vaultID,
		Type:    itemType,
		Name:    req.Name,
	})
	if err != nil {
		h.logFailure("start capture", ownerID, err, "vault_id", vaultID)
		return nil, handleError(err)
	}

	return &vaultpb.CaptureSession{
		SessionID: session.ID().String(),
		State:     session.State().String(),
		ExpiresAt: session.Deadline(),
	}, nil
}

func (h *Vaults) CompleteCapture(ctx context.Context, req *vaultpb.CompleteCaptureRequest) (*vaultpb.Item, error) {
	ownerID := h.ownerID(ctx)
	sessionID, err := parseID("session_id", req.SessionID)
	if err != nil {
		return nil, err
	}

	item, err := h.captureService.CompleteCapture(ctx, ownerID, sessionID, model.CaptureEvent{
		Data:            req.Data,
		DurationSeconds: req.DurationSeconds,
		Format:          req.Format,
		Resolution:      req.Resolution,
		OriginalName:    req.OriginalName,
	})
	if err != nil {
		h.logFailure("complete capture", ownerID, err, "session_id", sessionID)
		return nil, handleError(err)
	}

	return toProtoItem(item), nil
}

func (h *Vaults) AbortCapture(ctx context.Context, req *vaultpb.AbortCaptureRequest) (*emptypb.Empty, error) {
	ownerID := h.ownerID(ctx)
	sessionID, err := parseID("session_id", req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := h.captureService.AbortCapture(ctx, ownerID, sessionID); err != nil {
		h.logFailure("abort capture", ownerID, err, "session_id", sessionID)
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

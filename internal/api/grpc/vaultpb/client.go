package vaultpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// VaultsClient calls the Vaults service using the JSON codec.
type VaultsClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultsClient(cc grpc.ClientConnInterface) *VaultsClient {
	return &VaultsClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VaultsClient) CreateVault(ctx context.Context, in *CreateVaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, "CreateVault", in, opts)
}

func (c *VaultsClient) UpdateVault(ctx context.Context, in *UpdateVaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, "UpdateVault", in, opts)
}

func (c *VaultsClient) GetVault(ctx context.Context, in *GetVaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, "GetVault", in, opts)
}

func (c *VaultsClient) ListVaults(ctx context.Context, in *ListVaultsRequest, opts ...grpc.CallOption) (*ListVaultsResponse, error) {
	return invoke[ListVaultsResponse](ctx, c.cc, "ListVaults", in, opts)
}

func (c *VaultsClient) DeleteVault(ctx context.Context, in *DeleteVaultRequest, opts ...grpc.CallOption) (*DeleteVaultResponse, error) {
	return invoke[DeleteVaultResponse](ctx, c.cc, "DeleteVault", in, opts)
}

func (c *VaultsClient) CheckQuota(ctx context.Context, in *CheckQuotaRequest, opts ...grpc.CallOption) (*CheckQuotaResponse, error) {
	return invoke[CheckQuotaResponse](ctx, c.cc, "CheckQuota", in, opts)
}

func (c *VaultsClient) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c.cc, "AddItem", in, opts)
}

func (c *VaultsClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, "ListItems", in, opts)
}

func (c *VaultsClient) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c.cc, "GetItem", in, opts)
}

func (c *VaultsClient) DownloadItem(ctx context.Context, in *DownloadItemRequest, opts ...grpc.CallOption) (*DownloadItemResponse, error) {
	return invoke[DownloadItemResponse](ctx, c.cc, "DownloadItem", in, opts)
}

func (c *VaultsClient) RenameItem(ctx context.Context, in *RenameItemRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c.cc, "RenameItem", in, opts)
}

func (c *VaultsClient) DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DeleteItem", in, opts)
}

func (c *VaultsClient) GetUsage(ctx context.Context, in *GetUsageRequest, opts ...grpc.CallOption) (*GetUsageResponse, error) {
	return invoke[GetUsageResponse](ctx, c.cc, "GetUsage", in, opts)
}

func (c *VaultsClient) StartCapture(ctx context.Context, in *StartCaptureRequest, opts ...grpc.CallOption) (*CaptureSession, error) {
	return invoke[CaptureSession](ctx, c.cc, "StartCapture", in, opts)
}

func (c *VaultsClient) CompleteCapture(ctx context.Context, in *CompleteCaptureRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c.cc, "CompleteCapture", in, opts)
}

func (c *VaultsClient) AbortCapture(ctx context.Context, in *AbortCaptureRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "AbortCapture", in, opts)
}

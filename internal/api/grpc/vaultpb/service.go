// Package vaultpb declares the mediavault.v1.Vaults gRPC service. Messages
// travel as JSON using the codec registered by this package.
package vaultpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mediavault.v1.Vaults"

// FullMethod returns "/mediavault.v1.Vaults/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// VaultsServer is the server API for the Vaults service.
type VaultsServer interface {
	CreateVault(context.Context, *CreateVaultRequest) (*Vault, error)
	UpdateVault(context.Context, *UpdateVaultRequest) (*Vault, error)
	GetVault(context.Context, *GetVaultRequest) (*Vault, error)
	ListVaults(context.Context, *ListVaultsRequest) (*ListVaultsResponse, error)
	DeleteVault(context.Context, *DeleteVaultRequest) (*DeleteVaultResponse, error)
	CheckQuota(context.Context, *CheckQuotaRequest) (*CheckQuotaResponse, error)
	AddItem(context.Context, *AddItemRequest) (*Item, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	GetItem(context.Context, *GetItemRequest) (*Item, error)
	DownloadItem(context.Context, *DownloadItemRequest) (*DownloadItemResponse, error)
	RenameItem(context.Context, *RenameItemRequest) (*Item, error)
	DeleteItem(context.Context, *DeleteItemRequest) (*emptypb.Empty, error)
	GetUsage(context.Context, *GetUsageRequest) (*GetUsageResponse, error)
	StartCapture(context.Context, *StartCaptureRequest) (*CaptureSession, error)
	CompleteCapture(context.Context, *CompleteCaptureRequest) (*Item, error)
	AbortCapture(context.Context, *AbortCaptureRequest) (*emptypb.Empty, error)
}

// UnimplementedVaultsServer can be embedded to keep forward compatibility.
type UnimplementedVaultsServer struct{}

func (UnimplementedVaultsServer) CreateVault(context.Context, *CreateVaultRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateVault not implemented")
}
func (UnimplementedVaultsServer) UpdateVault(context.Context, *UpdateVaultRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateVault not implemented")
}
func (UnimplementedVaultsServer) GetVault(context.Context, *GetVaultRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method GetVault not implemented")
}
func (UnimplementedVaultsServer) ListVaults(context.Context, *ListVaultsRequest) (*ListVaultsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListVaults not implemented")
}
func (UnimplementedVaultsServer) DeleteVault(context.Context, *DeleteVaultRequest) (*DeleteVaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteVault not implemented")
}
func (UnimplementedVaultsServer) CheckQuota(context.Context, *CheckQuotaRequest) (*CheckQuotaResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckQuota not implemented")
}
func (UnimplementedVaultsServer) AddItem(context.Context, *AddItemRequest) (*Item, error) {
	return nil, status.Error(codes.Unimplemented, "method AddItem not implemented")
}
func (UnimplementedVaultsServer) ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListItems not implemented")
}
func (UnimplementedVaultsServer) GetItem(context.Context, *GetItemRequest) (*Item, error) {
	return nil, status.Error(codes.Unimplemented, "method GetItem not implemented")
}
func (UnimplementedVaultsServer) DownloadItem(context.Context, *DownloadItemRequest) (*DownloadItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DownloadItem not implemented")
}
func (UnimplementedVaultsServer) RenameItem(context.Context, *RenameItemRequest) (*Item, error) {
	return nil, status.Error(codes.Unimplemented, "method RenameItem not implemented")
}
func (UnimplementedVaultsServer) DeleteItem(context.Context, *DeleteItemRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteItem not implemented")
}
func (UnimplementedVaultsServer) GetUsage(context.Context, *GetUsageRequest) (*GetUsageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsage not implemented")
}
func (UnimplementedVaultsServer) StartCapture(context.Context, *StartCaptureRequest) (*CaptureSession, error) {
	return nil, status.Error(codes.Unimplemented, "method StartCapture not implemented")
}
func (UnimplementedVaultsServer) CompleteCapture(context.Context, *CompleteCaptureRequest) (*Item, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteCapture not implemented")
}
func (UnimplementedVaultsServer) AbortCapture(context.Context, *AbortCaptureRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method AbortCapture not implemented")
}

// RegisterVaultsServer registers srv on s.
func RegisterVaultsServer(s grpc.ServiceRegistrar, srv VaultsServer) {
	s.RegisterService(&Vaults_ServiceDesc, srv)
}

// Vaults_ServiceDesc is the grpc.ServiceDesc for the Vaults service.
var Vaults_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateVault", VaultsServer.CreateVault),
		unary("UpdateVault", VaultsServer.UpdateVault),
		unary("GetVault", VaultsServer.GetVault),
		unary("ListVaults", VaultsServer.ListVaults),
		unary("DeleteVault", VaultsServer.DeleteVault),
		unary("CheckQuota", VaultsServer.CheckQuota),
		unary("AddItem", VaultsServer.AddItem),
		unary("ListItems", VaultsServer.ListItems),
		unary("GetItem", VaultsServer.GetItem),
		unary("DownloadItem", VaultsServer.DownloadItem),
		unary("RenameItem", VaultsServer.RenameItem),
		unary("DeleteItem", VaultsServer.DeleteItem),
		unary("GetUsage", VaultsServer.GetUsage),
		unary("StartCapture", VaultsServer.StartCapture),
		unary("CompleteCapture", VaultsServer.CompleteCapture),
		unary("AbortCapture", VaultsServer.AbortCapture),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mediavault/v1/vaults.json",
}

func unary[Req, Resp any](method string, call func(VaultsServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(VaultsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(VaultsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

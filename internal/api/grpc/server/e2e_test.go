package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcctx "github.com/dtroode/mediavault-server/internal/api/grpc/context"
	"github.com/dtroode/mediavault-server/internal/api/grpc/router"
	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
	"github.com/dtroode/mediavault-server/internal/service"
	"github.com/dtroode/mediavault-server/internal/testutil"
	"github.com/dtroode/mediavault-server/internal/token"
)

type bufLayer struct{ ln *bufconn.Listener }

func (b bufLayer) Listen(_, _ string) (net.Listener, error) { return b.ln, nil }

type freeTier struct{}

func (freeTier) Current(uuid.UUID) model.SubscriptionState {
	return model.SubscriptionState{Tier: model.TierFree, Known: true, RefreshedAt: time.Now()}
}

type e2e struct {
	client *vaultpb.VaultsClient
	conn   *grpc.ClientConn
	blobs  *testutil.MemObjectStore
	tokens model.TokenManager
}

func startE2E(t *testing.T) *e2e {
	t.Helper()

	log := testutil.MakeNoopLogger()
	db := testutil.NewMemDB()
	blobs := testutil.NewMemObjectStore()
	tokens := token.NewJWT("e2e-secret", time.Minute)

	vaults := service.NewVaults(db.Vaults(), db.Items(), blobs, log)
	items := service.NewItems(db.Items(), db.Vaults(), blobs, log)
	policy := quota.NewPolicy(
		quota.Limits{MaxItems: 100, MaxVideos: 3, MaxVideoSeconds: 900, MaxItemBytes: 1 << 20},
		quota.Limits{},
	)
	manager := service.NewManager(vaults, items, policy, freeTier{}, log)

	captures := service.NewCaptures(manager, time.Minute, log)
	gs := router.New(manager, captures, tokens, grpcctx.NewManager(), log, 0).Register()
	srv := NewGRPCServer(gs, "bufnet")
	ln := bufconn.Listen(1 << 20)
	go func() { _ = srv.Start(bufLayer{ln: ln}) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return ln.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &e2e{client: vaultpb.NewVaultsClient(conn), conn: conn, blobs: blobs, tokens: tokens}
}

func (e *e2e) as(t *testing.T, ownerID uuid.UUID) context.Context {
	t.Helper()
	tok, err := e.tokens.GenerateAccessToken(ownerID)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
}

func TestE2E_TripScenario(t *testing.T) {
	e := startE2E(t)
	owner := uuid.New()
	ctx := e.as(t, owner)

	trip, err := e.client.CreateVault(ctx, &vaultpb.CreateVaultRequest{Name: "Trip"})
	require.NoError(t, err)
	assert.Equal(t, 0, trip.ItemCount)

	for i := 0; i < 3; i++ {
		_, err := e.client.AddItem(ctx, &vaultpb.AddItemRequest{
			VaultID: trip.ID, Type: "video", Name: "day", OriginalName: "day.MOV",
			Data: []byte("encrypted"), DurationSeconds: 60, Format: "h264",
		})
		require.NoError(t, err)
	}

	list, err := e.client.ListVaults(ctx, &vaultpb.ListVaultsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Vaults, 1)
	assert.Equal(t, 3, list.Vaults[0].ItemCount)

	check, err := e.client.CheckQuota(ctx, &vaultpb.CheckQuotaRequest{Type: "video"})
	require.NoError(t, err)
	assert.False(t, check.Allowed)

	_, err = e.client.AddItem(ctx, &vaultpb.AddItemRequest{
		VaultID: trip.ID, Type: "video", Name: "day4", Data: []byte("x"), DurationSeconds: 60, Format: "h264",
	})
	require.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "upgrade")

	usage, err := e.client.GetUsage(ctx, &vaultpb.GetUsageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, usage.Videos)
	assert.Equal(t, "3:00", usage.VideoDuration)

	resp, err := e.client.DeleteVault(ctx, &vaultpb.DeleteVaultRequest{VaultID: trip.ID})
	require.NoError(t, err)
	assert.Empty(t, resp.FailedKeys)

	list, err = e.client.ListVaults(ctx, &vaultpb.ListVaultsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Vaults)
	assert.Empty(t, e.blobs.Keys(owner.String()+"/"+trip.ID+"/"))
}

func TestE2E_ItemRoundtrip(t *testing.T) {
	e := startE2E(t)
	ctx := e.as(t, uuid.New())

	v, err := e.client.CreateVault(ctx, &vaultpb.CreateVaultRequest{Name: "Photos"})
	require.NoError(t, err)

	item, err := e.client.AddItem(ctx, &vaultpb.AddItemRequest{
		VaultID: v.ID, Type: "photo", Name: "sunset", OriginalName: "IMG_1.JPG", Data: []byte("ciphertext"), Format: "jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "photo", item.Type)

	dl, err := e.client.DownloadItem(ctx, &vaultpb.DownloadItemRequest{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), dl.Data)

	renamed, err := e.client.RenameItem(ctx, &vaultpb.RenameItemRequest{ItemID: item.ID, Name: "dusk"})
	require.NoError(t, err)
	assert.Equal(t, "dusk", renamed.Name)

	_, err = e.client.DeleteItem(ctx, &vaultpb.DeleteItemRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = e.client.GetItem(ctx, &vaultpb.GetItemRequest{ItemID: item.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestE2E_Capture(t *testing.T) {
	e := startE2E(t)
	ctx := e.as(t, uuid.New())

	v, err := e.client.CreateVault(ctx, &vaultpb.CreateVaultRequest{Name: "Camera"})
	require.NoError(t, err)

	session, err := e.client.StartCapture(ctx, &vaultpb.StartCaptureRequest{VaultID: v.ID, Type: "video"})
	require.NoError(t, err)
	assert.Equal(t, "capturing", session.State)

	item, err := e.client.CompleteCapture(ctx, &vaultpb.CompleteCaptureRequest{
		SessionID: session.SessionID, OriginalName: "clip.mp4", Data: []byte("frames"), DurationSeconds: 5, Format: "h264",
	})
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", item.Name)

	list, err := e.client.ListItems(ctx, &vaultpb.ListItemsRequest{VaultID: v.ID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestE2E_OwnersAreIsolated(t *testing.T) {
	e := startE2E(t)
	alice := e.as(t, uuid.New())
	bob := e.as(t, uuid.New())

	v, err := e.client.CreateVault(alice, &vaultpb.CreateVaultRequest{Name: "Private"})
	require.NoError(t, err)

	_, err = e.client.GetVault(bob, &vaultpb.GetVaultRequest{VaultID: v.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestE2E_Auth(t *testing.T) {
	e := startE2E(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := e.client.ListVaults(ctx, &vaultpb.ListVaultsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer garbage")
	_, err = e.client.ListVaults(bad, &vaultpb.ListVaultsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	hc, err := healthpb.NewHealthClient(e.conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.Status)
}

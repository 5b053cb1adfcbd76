package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/mediavault-server/internal/api/grpc/handler"
	"github.com/dtroode/mediavault-server/internal/api/grpc/middleware"
	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
)

const defaultMaxMessageBytes = 64 << 20

// Router represents a gRPC router for vault operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	vaultService    handler.VaultService
	captureService  handler.CaptureService
	tokenParser     middleware.TokenParser
	contextManager  model.ContextManager
	logger          *logger.Logger
	maxMessageBytes int
	health          *health.Server
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - vaultService: The vault and item operations
//   - captureService: Capture sessions of recording devices
//   - tokenParser: Validates bearer access tokens
//   - contextManager: Stores the authenticated owner in the request context
//   - logger: The logger for request logging
//   - maxMessageBytes: Upper bound on request and response size, 0 for default
func New(
	vaultService handler.VaultService,
	captureService handler.CaptureService,
	tokenParser middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
	maxMessageBytes int,
) *Router {
	if maxMessageBytes <= 0 {
		maxMessageBytes = defaultMaxMessageBytes
	}
	return &Router{
		vaultService:    vaultService,
		captureService:  captureService,
		tokenParser:     tokenParser,
		contextManager:  contextManager,
		logger:          logger,
		maxMessageBytes: maxMessageBytes,
		health:          health.NewServer(),
	}
}

// Health exposes the gRPC health service so the caller can flip serving
// status during shutdown.
func (r *Router) Health() *health.Server {
	return r.health
}

// requiresAuth reports whether the call needs a bearer token. Health checks
// are public.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

// Register registers all gRPC services and middleware.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenParser, r.contextManager, r.logger)
	rec := middleware.NewRecovery(r.logger)

	s := grpc.NewServer(
		grpc.MaxRecvMsgSize(r.maxMessageBytes),
		grpc.MaxSendMsgSize(r.maxMessageBytes),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(rec.HandlePanic)),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(rec.HandlePanic)),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerVaultRoutes(s)
	healthpb.RegisterHealthServer(s, r.health)

	return s
}

func (r *Router) registerVaultRoutes(server *grpc.Server) {
	vaultHandler := handler.NewVaults(r.vaultService, r.captureService, r.contextManager, r.logger)
	vaultpb.RegisterVaultsServer(server, vaultHandler)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/mediavault-server/internal/api/admin"
	grpcctx "github.com/dtroode/mediavault-server/internal/api/grpc/context"
	"github.com/dtroode/mediavault-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/mediavault-server/internal/api/grpc/server"
	"github.com/dtroode/mediavault-server/internal/config"
	"github.com/dtroode/mediavault-server/internal/entitlement"
	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/repository/postgres"
	"github.com/dtroode/mediavault-server/internal/server"
	"github.com/dtroode/mediavault-server/internal/service"
	storage "github.com/dtroode/mediavault-server/internal/storage/minio"
	"github.com/dtroode/mediavault-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC API and the admin HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			return runServe(cmd.Context(), cfg, log)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	blobs, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	vaultRepo := postgres.NewVaultRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	entitlements := entitlement.NewCache(
		postgres.NewSubscriptionRepository(db),
		cfg.Entitlement.RefreshInterval,
		cfg.Entitlement.MaxStaleness,
		log,
	)

	vaults := service.NewVaults(vaultRepo, itemRepo, blobs, log)
	items := service.NewItems(itemRepo, vaultRepo, blobs, log)
	manager := service.NewManager(vaults, items, cfg.Quota.Policy(), entitlements, log)
	captures := service.NewCaptures(manager, cfg.Capture.MaxDuration, log)

	r := router.New(
		manager,
		captures,
		token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL),
		grpcctx.NewManager(),
		log,
		cfg.GRPC.MaxMessageBytes,
	)
	gs := r.Register()
	reflection.Register(gs)
	grpcSrv := grpcServer.NewGRPCServer(gs, fmt.Sprintf(":%s", cfg.GRPC.Port))

	httpSrv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler: admin.New(map[string]admin.Checker{
			"postgres": db,
			"minio":    blobs,
		}, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	logAppVersion(log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return entitlements.Run(gctx)
	})

	g.Go(func() error {
		log.Info("Starting gRPC server", "address", grpcSrv.Address())
		if err := grpcSrv.Start(sl); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("Starting admin HTTP server", "address", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("received interruption signal, shutting down")
		r.Health().SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("error during admin server shutdown", "error", err)
		}
		return grpcSrv.Stop(shutdownCtx)
	})

	err = g.Wait()
	log.Info("shutdown complete")
	return err
}

func logAppVersion(log *logger.Logger) {
	log.Info("Build info",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit)
}

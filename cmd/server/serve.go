package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/promptvault-api/internal/database"
	"github.com/yukikurage/promptvault-api/internal/server"
)

func newServeCommand() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")

	return cmd
}

func serve(ctx context.Context, skipMigrate bool) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Sync() //nolint:errcheck

	appCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.Connect(cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer database.Close(db, appLogger)

	if !skipMigrate {
		if err := database.Migrate(db, appLogger); err != nil {
			return err
		}
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	redisClient := server.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	router := server.NewRouter(server.Options{
		DB:             db,
		Redis:          redisClient,
		SessionStore:   store,
		SessionName:    cfg.Session.Name,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         appLogger,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, groupCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		appLogger.Info("HTTP server stopped listening")
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		appLogger.Info("HTTP server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("server exited with error", zap.Error(err))
		return err
	}
	return nil
}

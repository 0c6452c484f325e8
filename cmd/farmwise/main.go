package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/farmwise/farmwise/internal/ai"
	"github.com/farmwise/farmwise/internal/artifactstore"
	"github.com/farmwise/farmwise/internal/config"
	"github.com/farmwise/farmwise/internal/db"
	"github.com/farmwise/farmwise/internal/handler"
	"github.com/farmwise/farmwise/internal/job"
	"github.com/farmwise/farmwise/internal/mlmodel"
	"github.com/farmwise/farmwise/internal/repo"
	"github.com/farmwise/farmwise/internal/schedule"
	"github.com/farmwise/farmwise/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "farmwise",
		Short: "farmwise prediction server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run farmwise server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(database); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	store, err := artifactstore.New(cfg.ModelStore)
	if err != nil {
		return fmt.Errorf("init model store: %w", err)
	}
	// no partial service: a missing or corrupt artifact stops startup
	registry, err := mlmodel.LoadRegistry(ctx, store)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	logutil.GetLogger(ctx).Info("model registry loaded", zap.String("store", cfg.ModelStore.Type))

	userRepo := repo.NewUserRepo(database)
	predictionRepo := repo.NewPredictionRepo(database)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	predictionService := service.NewPredictionService(registry, predictionRepo)
	provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	chatService := service.NewChatService(provider, cfg.AI.Model, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Predict:   handler.NewPredictHandler(predictionService),
		Chat:      handler.NewChatHandler(chatService),
		JWTSecret: []byte(cfg.JWTSecret),
		CORS:      cfg.CORSOrigins,
	})

	scheduler := schedule.NewCronScheduler()
	if cfg.Retention.Days > 0 {
		if err := scheduler.AddJob(job.NewRetentionJob(predictionRepo, cfg.Retention.Days), cfg.Retention.Spec); err != nil {
			return fmt.Errorf("schedule retention job: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

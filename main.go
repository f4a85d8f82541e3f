package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/config"
	"github.com/yeremiapane/pos-app/database"
	"github.com/yeremiapane/pos-app/router"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(db, database.AdminSeed{
		Username: cfg.SeedAdminUsername,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
	}); err != nil {
		return err
	}
	if cfg.SeedCatalog && !cfg.IsProduction() {
		if err := database.SeedCatalog(db); err != nil {
			return err
		}
	}

	images, err := services.NewImageService(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(cfg, db, images),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"env":      cfg.GoEnv,
			"db":       cfg.DBDriver,
			"images":   cfg.ImageStore,
			"timezone": cfg.Location.String(),
		}).Info("POS API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// WebVella ERP - entity metadata server
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railsuser2014/WebVella-ERP/internal/api"
	"github.com/railsuser2014/WebVella-ERP/internal/auth"
	"github.com/railsuser2014/WebVella-ERP/internal/config"
	"github.com/railsuser2014/WebVella-ERP/internal/database"
	"github.com/railsuser2014/WebVella-ERP/internal/engine"
	"github.com/railsuser2014/WebVella-ERP/internal/logging"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "webvella",
		Short:        "WebVella ERP entity metadata server",
		Version:      Version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newEntityCmd(), newTokenCmd())
	return root
}

// app is everything a command needs once configuration is resolved
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	manager *engine.EntityManager
}

// bootstrap resolves configuration, opens the store and runs migrations.
// With DB_DRIVER=memory nothing is persisted.
func bootstrap() (*app, error) {
	cfg := config.NewConfigService(nil).LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, os.Stderr)
	secretErr := cfg.CheckSharedSecret()

	var (
		db    *gorm.DB
		store storage.Store
	)
	svc := config.NewConfigService(nil)
	if cfg.Database.Driver != config.DriverMemory {
		var err error
		db, err = database.Open(cfg.Database, cfg.Engine.DevelopmentMode)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "driver", cfg.Database.Driver, "host", cfg.Database.Host)

		if err := database.RunMigrations(db, logger); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		svc = config.NewConfigService(db)
		store = storage.NewGormStore(db)
	} else {
		logger.Warn("using in-memory store, metadata is lost on exit")
		if secretErr != nil {
			logger.Warn("tokens from other processes will be rejected", "error", secretErr)
		}
		store = storage.NewMemoryStore()
	}

	if err := svc.SetupDefaultConfig(); err != nil {
		return nil, err
	}
	cfg = svc.LoadConfig()

	manager := engine.NewEntityManager(store, logger, engine.Options{
		DevelopmentMode: cfg.Engine.DevelopmentMode,
		MaxQueryDepth:   cfg.Engine.MaxQueryDepth,
	})
	return &app{cfg: cfg, logger: logger, db: db, manager: manager}, nil
}

func (a *app) tokens() *auth.JWTService {
	return auth.NewJWTService(a.cfg.Auth.JWTSecret, time.Duration(a.cfg.Auth.AccessExpiry)*time.Hour)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.Server.Mode == gin.ReleaseMode || a.cfg.Server.Mode == gin.DebugMode || a.cfg.Server.Mode == gin.TestMode {
		gin.SetMode(a.cfg.Server.Mode)
	}

	handler := api.NewHandler(a.manager, a.tokens(), a.logger)
	router := api.SetupRouter(handler, a.cfg.CORS)

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "port", a.cfg.Server.Port, "version", Version)
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

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			if a.db == nil {
				return fmt.Errorf("nothing to migrate with DB_DRIVER=%s", config.DriverMemory)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete")
			return nil
		},
	}
}

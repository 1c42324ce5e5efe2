package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "storefront/internal/config"
	intdb "storefront/internal/db"
	router "storefront/internal/http"
	h "storefront/internal/http/handlers"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	decimal.MarshalJSONWithoutQuotes = true
	if env.JWTSecret == "change-me" {
		log.Warn("JWT_SECRET is the built-in default; set it before exposing the admin API")
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !skipMigrate {
		if err := intdb.Migrate(ctx, db); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(env.UploadDir, 0o755); err != nil {
		return err
	}

	sessions := services.NewSessionStore(env.SessionIdleTimeout)
	go sessions.RunJanitor(ctx, time.Minute)

	h.Configure(h.Deps{Env: env, Sessions: sessions})
	r := router.NewRouter(env)
	h.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
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

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

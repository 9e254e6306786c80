package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram"
	ramrepo "github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/repo"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/pkg/utilities"
)

// userStore is what both the user service and the identity middleware need.
type userStore interface {
	user.Repository
	auth.IdentityLookup
}

func main() {
	// reads .env if present; a missing secret stops the process here
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting service-pcinfo-go", "storage", cfg.Storage, "addr", cfg.Server.Addr)

	tokens, err := auth.NewTokenHandler(cfg.Auth)
	if err != nil {
		sugar.Fatalf("token handler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		users userStore
		rams  ram.Repository
		db    *sqlx.DB
	)
	switch cfg.Storage {
	case config.StorageMemory:
		sugar.Warn("using in-memory storage; data is lost on restart")
		users = userrepo.NewMemoryRepo()
		rams = ramrepo.NewMemoryRepo()
	default:
		db, err = database.Connect(ctx, database.ConfigFromEnv())
		if err != nil {
			sugar.Fatalf("db: %v", err)
		}
		defer db.Close()
		users = userrepo.NewUserRepo(db)
		rams = ramrepo.NewRepo(db)
	}

	handler := router.RegisterRoutes(router.Deps{
		Logger:         sugar,
		Tokens:         tokens,
		Identities:     users,
		Users:          user.NewHandler(user.NewUserService(users, tokens, nil), sugar),
		Rams:           ram.NewHandler(ram.NewService(rams), sugar),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	<-ctx.Done()

	sugar.Info("shutting down")
	shutdown(sugar, srv, db)
	sugar.Info("goodbye")
}

// shutdown gives in-flight requests a short grace period.
func shutdown(sugar *zap.SugaredLogger, srv *http.Server, db *sqlx.DB) {
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if db != nil {
		if err := db.PingContext(doneCtx); err != nil {
			sugar.Warnf("db ping on shutdown failed: %v", err)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/staffdeck/directory-api/internal/employee"
	emprepo "github.com/staffdeck/directory-api/internal/employee/repo"
	"github.com/staffdeck/directory-api/internal/router"
	"github.com/staffdeck/directory-api/pkg/database"
	"github.com/staffdeck/directory-api/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting directory-api")

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// seed the directory on first boot. Best-effort: a generator outage must
	// not keep the API from serving, so failures are logged and dropped.
	seedSvc := employee.NewService(emprepo.NewEmployeeRepo(sqlxDB), sugar)
	go func() {
		seedCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		if err := seedSvc.InitializeIfEmpty(seedCtx, employee.NewGeneratorClient("")); err != nil {
			sugar.Warnw("seed bootstrap failed", "err", err)
		}
	}()

	// mount http server
	handler, err := router.RegisterRoutes(sugar, sqlxDB)
	if err != nil {
		sugar.Fatalf("register routes: %v", err)
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:3001"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

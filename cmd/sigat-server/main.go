// Package main provides the asset registry server entry point.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang/glog"

	"github.com/sigat/asset-registry/internal/db"
	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/agent"
	"github.com/sigat/asset-registry/pkg/audit"
	"github.com/sigat/asset-registry/pkg/compliance"
	"github.com/sigat/asset-registry/pkg/models"
	"github.com/sigat/asset-registry/pkg/obsolescence"
	"github.com/sigat/asset-registry/pkg/registry"
	"github.com/sigat/asset-registry/pkg/vuln"
)

func main() {
	var (
		listenAddr   string
		databaseType string
		databaseDSN  string
	)
	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&databaseType, "db-type", "postgres", "Database type (postgres, mysql or sqlite)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.Parse()

	_ = flag.Set("logtostderr", "true")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting asset registry server", "listen", listenAddr, "db", databaseType)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	gormDB, err := db.Connect(db.Config{Type: databaseType, DSN: databaseDSN})
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(gormDB); err != nil {
		glog.Fatalf("Failed to migrate schema: %v", err)
	}

	auditCfg := audit.ConfigFromEnv()
	auditStore := audit.NewStore(gormDB)
	if err := auditStore.AutoMigrate(); err != nil {
		glog.Fatalf("Failed to migrate audit schema: %v", err)
	}
	recorder := audit.NewRecorder(auditStore, logger)

	rulesStore := obsolescence.NewRulesStore(gormDB, logger)
	if _, err := rulesStore.Get(); err != nil {
		glog.Fatalf("Failed to initialize obsolescence rules: %v", err)
	}

	warningStore := compliance.NewWarningStore(gormDB, recorder)
	scanner := vuln.NewScanner(gormDB, warningStore, logger)
	evaluator := obsolescence.NewEvaluator(gormDB, rulesStore)
	ingestor := agent.NewIngestor(gormDB, logger)
	registryStore := registry.NewStore(gormDB, recorder)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id", "X-Username", "X-User-Role"},
	}))
	router.Use(actor.Middleware(actor.HeaderResolver{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/agent", agent.Router(ingestor))
		if auditCfg.Enabled {
			r.Mount("/audit", audit.Router(auditStore))
		}
		r.Mount("/warnings", compliance.Router(warningStore))
		r.Mount("/obsolescence", obsolescence.Router(rulesStore))
		r.Mount("/vuln", vuln.Router(scanner))
		r.Get("/reports/obsolete-assets", obsolescence.ObsoleteAssetsHandler(evaluator))
		r.Get("/reports/vulnerable-software", vuln.VulnerableSoftwareHandler(scanner))
		r.Get("/reports/licenses-usage", registry.LicenseUsageHandler(registryStore))
		r.Mount("/", registry.Router(registryStore))
	})

	if auditCfg.Enabled {
		worker := audit.NewRetentionWorker(auditStore, auditCfg.RetentionDays, logger)
		go worker.Run(ctx)
	}

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Info("asset registry server ready", "listen", listenAddr)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("asset registry server stopped")
}

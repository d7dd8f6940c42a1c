package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/activator"
	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/command"
	"github.com/mrlokans/redshift-manager/internal/config"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/database"
	auditRepo "github.com/mrlokans/redshift-manager/internal/database/audit"
	"github.com/mrlokans/redshift-manager/internal/geolocation"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	http_controllers "github.com/mrlokans/redshift-manager/internal/http"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/scheduler"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
	"github.com/mrlokans/redshift-manager/internal/status"
	"github.com/mrlokans/redshift-manager/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting control API at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop the agent first so the display is reset while commands can still run.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Redshift Manager v%s", version)

	if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
		log.Fatalf("Invalid AUDIT_CLEANUP_SCHEDULE %q: %v", cfg.Audit.CleanupSchedule, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}
	db, err := database.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsStore := settingsstore.New(db)
	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	fileStore := configstore.NewFileStore(cfg.Storage.ConfigFile)
	store := configstore.New(fileStore, settingsStore, configstore.Options{
		Version: version,
		Auditor: audit.NewAuditor(cfg.Audit.Dir),
		Events:  auditService,
	})
	log.Printf("Configuration file: %s", fileStore.Path())

	runner := command.NewAsync(command.ExecRunner{}, cfg.Commands.Timeout)
	notifier := notify.NewDesktop(cfg.Commands.NotifyBinary, runner)
	redshift := activator.NewRedshift(cfg.Commands.RedshiftBinary, runner)
	redshift.OnError = func(err error) {
		notifier.Notify(fmt.Sprintf("Error running redshift: %v", err), notify.UrgencyCritical)
	}

	board := status.NewBoard()
	board.Listen(func(s status.Status) {
		log.Printf("Status: %s", s.Tooltip)
	})
	registry := hotkeys.NewMemoryRegistry()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Storage.DatabasePath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
	}

	locator := geolocation.NewClient(cfg.Geolocation.URL, cfg.Geolocation.Timeout)
	agentCfg := agent.Config{
		Store:              store,
		Settings:           settingsStore,
		Watcher:            fileStore,
		Activator:          redshift,
		Notifier:           notifier,
		Board:              board,
		Registry:           registry,
		Events:             auditService,
		PollInterval:       cfg.Settings.PollInterval,
		CleanupSchedule:    cfg.Audit.CleanupSchedule,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Locator:            locator,
	}
	if taskClient != nil {
		agentCfg.Tasks = taskClient
	}
	a := agent.New(agentCfg)

	var taskCtxCancel context.CancelFunc
	if taskClient != nil {
		taskClient.Register(
			tasks.NewLocateQueue(locator, a),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("Task queue disabled: location lookup and audit cleanup run inline without retries")
	}

	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start agent: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Agent:              a,
		Registry:           registry,
		Database:           db,
		SettingsStore:      settingsStore,
		AuditService:       auditService,
		TaskClient:         taskClient,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	})

	onShutdown := func(ctx context.Context) {
		if err := a.Shutdown(ctx); err != nil {
			log.Printf("Error stopping agent: %v", err)
		}
		// redshift -x must finish before the process exits
		redshift.Wait()
		notifier.Wait()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

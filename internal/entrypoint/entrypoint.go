package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/config"
	"github.com/mrlokans/eldercare/internal/database"
	http_controllers "github.com/mrlokans/eldercare/internal/http"
	"github.com/mrlokans/eldercare/internal/scheduler"
	"github.com/mrlokans/eldercare/internal/services"
	"github.com/mrlokans/eldercare/internal/tasks"
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
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop producers first so no job is enqueued into a closing queue
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Print("Server Shutdown: ", err)
	}

	log.Println("Server exiting")
}

// startTasks opens the job queue, or an inline runner when the queue is
// disabled. The returned stop function is nil for the inline runner.
func startTasks(cfg *config.Config, svc *services.Services) (scheduler.Enqueuer, func(ctx context.Context), error) {
	if !cfg.Tasks.Enabled {
		log.Printf("Task queue disabled; maintenance jobs run inline")
		return tasks.NewInline(svc.Alerts, svc.Audit), nil, nil
	}

	client, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	})
	if err != nil {
		return nil, nil, err
	}

	client.Register(
		tasks.NewCheckMissedDosesQueue(svc.Alerts),
		tasks.NewCheckInactivityQueue(svc.Alerts),
		tasks.NewCleanupResolvedAlertsQueue(svc.Alerts),
		tasks.NewCleanupAuditEventsQueue(svc.Audit),
	)

	taskCtx, taskCancel := context.WithCancel(context.Background())
	client.Start(taskCtx)

	stop := func(ctx context.Context) {
		client.Stop(ctx)
		taskCancel()
		if err := client.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	return client, stop, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting ElderCare v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, database.Options{
		DestructiveFallback: cfg.Database.DestructiveFallback,
		LogSQL:              cfg.Database.LogSQL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	log.Printf("Database %s ready (schema identity %s)", db.Path(), db.IdentityHash())

	svc := services.New(db, services.Options{DedupWindow: cfg.Alerts.DedupWindow})
	defer svc.Close()

	if err := svc.SeedElder(cfg.Elder.Name, cfg.Elder.Age); err != nil {
		log.Fatalf("Failed to seed elder settings: %v", err)
	}

	queue, stopTasks, err := startTasks(cfg, svc)
	if err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}

	maintenance := scheduler.NewMaintenanceScheduler(queue, scheduler.Config{
		MissedDoseEnabled:   cfg.MissedDoses.Enabled,
		MissedDoseSchedule:  cfg.MissedDoses.Schedule,
		MissedDoseGrace:     cfg.MissedDoses.Grace,
		InactivityEnabled:   cfg.Inactivity.Enabled,
		InactivitySchedule:  cfg.Inactivity.Schedule,
		InactivityThreshold: cfg.Inactivity.Threshold,
		AlertRetentionDays:  cfg.Alerts.RetentionDays,
		AuditRetentionDays:  cfg.Audit.RetentionDays,
	})
	schedCtx, schedCancel := context.WithCancel(context.Background())
	if err := maintenance.Start(schedCtx); err != nil {
		log.Fatalf("Failed to start maintenance scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:  db,
		Services:  svc,
		Scheduler: maintenance,
		Version:   version,
	})

	onShutdown := func(ctx context.Context) {
		schedCancel()
		maintenance.Stop()
		if stopTasks != nil {
			stopTasks(ctx)
		}
	}

	Serve(router, cfg, onShutdown)
}

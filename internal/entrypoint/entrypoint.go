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

	"grantscope/internal/analytics"
	"grantscope/internal/auth"
	"grantscope/internal/config"
	"grantscope/internal/database"
	"grantscope/internal/database/sessions"
	"grantscope/internal/database/users"
	http_controllers "grantscope/internal/http"
	"grantscope/internal/projects"
	"grantscope/internal/scheduler"
	"grantscope/internal/tasks"
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

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting GrantScope v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Load the static projects dataset
	store, err := projects.LoadStore(cfg.Dataset.Path)
	if err != nil {
		log.Fatalf("Failed to load project dataset: %v", err)
	}

	projectService := projects.NewService(store)
	analyticsService := analytics.NewService(store)

	// Authentication
	sessionRepo := sessions.NewRepository(db.DB)
	authService := auth.NewService(users.NewRepository(db.DB), sessionRepo, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupSessionsQueue(sessionRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic session sweep. With the task queue enabled the sweep is
	// enqueued as a background task; otherwise it runs inline.
	var sweep scheduler.SweepFunc
	if taskClient != nil {
		sweep = func() error {
			_, err := taskClient.Add(tasks.CleanupSessionsTask{}).Save()
			return err
		}
	} else {
		sweep = func() error {
			_, err := sessionRepo.DeleteExpired(context.Background(), time.Now())
			return err
		}
	}
	sweepScheduler := scheduler.NewSessionSweepScheduler(cfg.Auth, sweep)
	if err := sweepScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start session sweep scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:         db,
		ProjectStore:     store,
		ProjectService:   projectService,
		AnalyticsService: analyticsService,
		AuthService:      authService,
		AuthMiddleware:   authMiddleware,
		AuthConfig:       cfg.Auth,
		Version:          version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		sweepScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

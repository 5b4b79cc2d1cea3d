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

	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/collection"
	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/database"
	dynamicsrepo "github.com/bookfriends/server/internal/database/dynamics"
	"github.com/bookfriends/server/internal/database/userbooks"
	"github.com/bookfriends/server/internal/database/users"
	"github.com/bookfriends/server/internal/dynamics"
	http_controllers "github.com/bookfriends/server/internal/http"
	"github.com/bookfriends/server/internal/resolver"
	"github.com/bookfriends/server/internal/scheduler"
	"github.com/bookfriends/server/internal/tasks"
)

// limiterPruneInterval is how often stale login-attempt records are dropped.
const limiterPruneInterval = 10 * time.Minute

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

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking requests before the background workers go away.
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting book-friends server v%s", version)

	db, err := database.NewDatabaseWithLogLevel(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	books, err := OpenBookSource(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize book resolver: %v", err)
	}
	defer books.Close()

	userRepo := users.NewRepository(db.DB)
	collectionRepo := userbooks.NewRepository(db.DB)

	// Durable write-back when the task queue is enabled; otherwise the
	// in-process writer from OpenBookSource stays in place.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var queue tasks.Enqueuer
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromSettings(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		books.Resolver = resolver.New(books.Cache, books.Provider, tasks.NewQueueWriter(taskClient))
		taskClient.Register(
			tasks.NewCacheBookQueue(books.Cache),
			tasks.NewResolveBookQueue(books.Resolver),
		)
		queue = taskClient

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	collections := collection.NewManager(userRepo, books.Resolver, collectionRepo)

	authService := auth.NewService(userRepo, cfg.Auth)
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager)
	loginLimiter := auth.NewLoginLimiter(cfg.Auth)

	if count, err := userRepo.Count(context.Background()); err == nil && count == 0 {
		log.Printf("No users found. Register one via POST /api/user/register or the create-user command.")
	}

	dynamicsService := dynamics.NewService(dynamicsrepo.NewRepository(db.DB), userRepo, cfg.Feed.PageSize)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var repair *scheduler.CacheRepairScheduler
	if cfg.CacheRepair.Enabled {
		repair = scheduler.NewCacheRepairScheduler(collectionRepo, books.Cache, books.Resolver, queue, cfg.CacheRepair.Schedule)
		if err := repair.Start(bgCtx); err != nil {
			log.Printf("WARNING: cache repair disabled: %v", err)
			repair = nil
		}
	}

	go func() {
		ticker := time.NewTicker(limiterPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-bgCtx.Done():
				return
			case <-ticker.C:
				loginLimiter.Prune()
			}
		}
	}()

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		BookCache:      books.Cache,
		Resolver:       books.Resolver,
		Collections:    collections,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		SecureCookies:  cfg.Auth.SecureCookies,
		Dynamics:       dynamicsService,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if repair != nil {
			repair.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		bgCancel()
	}

	Serve(router, cfg, onShutdown)
}

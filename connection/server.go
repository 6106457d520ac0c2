package connection

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lifedashboard/controller/calendar"
	"lifedashboard/controller/project"
	"lifedashboard/controller/resource"
	"lifedashboard/controller/shared"
	"lifedashboard/controller/user"
	"lifedashboard/middleware"
	"lifedashboard/services"
)

// NewRouter builds the engine with every route wired to b.
func NewRouter(cfg Config, b *Backends, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := b.Store.Ping(ctx); err != nil {
			logger.Error("health check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if b.LocalBlobDir != "" {
		router.Static("/files", b.LocalBlobDir)
	}

	shortcuts := services.NewShortcutService(b.Store)
	sharedProjects := services.NewSharedProjectService(b.Store, shortcuts, logger)
	projects := services.NewProjectService(b.Store, sharedProjects, logger)
	resources := services.NewResourceService(b.Store, projects, cfg.DefaultWeeklyCapacity, logger)
	users := services.NewUserService(b.Store, sharedProjects, b.Blobs, logger)

	auth := middleware.AccessTokenMiddleware(b.Verifier)
	project.ProjectController(router, auth, projects)
	shared.SharedProjectController(router, auth, sharedProjects, cfg.BaseURL)
	resource.ResourceController(router, auth, resources)
	calendar.CalendarController(router, auth, services.NewCalendarService(projects))
	user.UserController(router, auth, users)

	return router
}

func setGinMode(mode string) {
	switch mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// StartServer loads the configuration, serves until SIGINT or SIGTERM and
// shuts down gracefully.
func StartServer() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	setGinMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, backends, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	stop()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server exiting")
	return nil
}

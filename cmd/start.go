package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"doc-composer/core/library"
	"doc-composer/core/loader"
	"doc-composer/core/logger"
	"doc-composer/core/middleware/auth"
	"doc-composer/core/middleware/rayid"
	"doc-composer/feature/compose"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "doc-composer/docs/swagger"
)

// @title Document Composer API
// @version 1.0
// @description API for resolving document manifests and composing Word documents.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document composer server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load configuration, logger, storage and library
		env, err := setup(false)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer env.close()
		logg := env.logger
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. Watch library directories so edits show up without waiting for the TTL
		if env.cfg.Library.Watch {
			watcher, err := library.NewWatcher(env.cache, logg)
			if err != nil {
				logg.Warn("Library watcher disabled", zap.Error(err))
			} else {
				watcher.Start(ctx)
				defer watcher.Close()
			}
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             16 * 1024 * 1024,
		})

		// 4. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(compose.NewFeature(env.service()))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		if !env.cfg.Server.Protected() {
			logg.Warn("No API key configured, the API is open")
		}
		app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", env.cfg.Server.Port))
			if err := app.Listen(env.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

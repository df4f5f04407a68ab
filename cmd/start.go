package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stripe-sync/core/loader"
	"stripe-sync/core/logger"
	"stripe-sync/core/middleware/auth"
	"stripe-sync/core/middleware/rayid"
	"stripe-sync/core/scheduler"
	"stripe-sync/feature/customers"
	"stripe-sync/feature/events"
	"stripe-sync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title stripe-sync API
// @version 1.0
// @description Admin API binding platform users to existing Stripe customers.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the admin API server",
	Long:  `Starts the HTTP server, loads all features and, when sync.schedule_enabled is set, the recurring bulk pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.log
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(customers.NewFeature(a.customers))
		mgr.Register(events.NewFeature(a.dispatcher, logg))
		mgr.Register(integrity.NewFeature(a.integrity()))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

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

		app.Get("/swagger/*", swagger.HandlerDefault)

		if !a.cfg.Server.IsProtected() {
			logg.Warn("SERVER_API_KEY is not set, the admin API is unprotected")
		}
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		sched := scheduler.New(ctx, logg)
		defer sched.Stop()
		if a.cfg.Sync.ScheduleEnabled {
			if err := sched.Register("sync_all", a.cfg.Sync.IntervalDuration(), func(ctx context.Context) error {
				_, err := a.customers.SyncAll(ctx)
				return err
			}); err != nil {
				return err
			}
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
			errCh <- app.Listen(a.cfg.Server.Addr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

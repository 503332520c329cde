// Package server wires the application together: configuration, database and
// migrations, the pricing table, external collaborators (payment provider,
// artifact store, notification queue) and the HTTP server, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/artifacts"
	"github.com/shipshopglobal/backend/internal/server/config"
	"github.com/shipshopglobal/backend/internal/server/httpapi"
	"github.com/shipshopglobal/backend/internal/server/notify"
	"github.com/shipshopglobal/backend/internal/server/payment"
	"github.com/shipshopglobal/backend/internal/server/pricing"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
	"github.com/shipshopglobal/backend/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	slab, err := pricing.LoadCSV(cfg.RateTablePath)
	if err != nil {
		return nil, fmt.Errorf("rate table error: %w", err)
	}
	calculator := pricing.NewCalculator(slab, cfg.VolumetricDivisor, logger)

	provider := payment.NewPayPalClient(cfg.PayPalBaseURL, cfg.PayPalClientID,
		cfg.PayPalSecret, cfg.PayPalTimeout, logger)
	store := artifacts.NewS3Store(cfg)

	var notifier notify.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.EmailQueue)
		if err != nil {
			return nil, fmt.Errorf("notification queue error: %w", err)
		}
		notifier = amqpNotifier
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	guard := services.NewSignupGuard(rm, logger)
	userService := services.NewUserService(db, rm, guard, notifier, logger, cfg)
	mailboxService := services.NewMailboxService(db, rm, calculator, logger)
	checkoutService := services.NewCheckoutService(db, rm, provider, store, notifier, logger, cfg.Currency)
	shipmentService := services.NewShipmentService(db, rm, store, logger)

	api := httpapi.NewServer(userService, mailboxService, checkoutService,
		shipmentService, logger, []byte(cfg.SecretKey))

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: &http.Server{
			Addr:    cfg.EndpointAddr,
			Handler: api.Router(),
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until the context is cancelled or a termination signal arrives,
// then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err.Error())
	}

	return app.db.Close()
}

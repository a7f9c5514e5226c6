package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hollowaybooks/folio/internal"
	"github.com/hollowaybooks/folio/internal/auth"
	"github.com/hollowaybooks/folio/internal/email"
	"github.com/hollowaybooks/folio/internal/events"
	"github.com/hollowaybooks/folio/internal/handler/admin"
	"github.com/hollowaybooks/folio/internal/handler/api"
	"github.com/hollowaybooks/folio/internal/middleware"
	"github.com/hollowaybooks/folio/internal/payment"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/router"
	"github.com/hollowaybooks/folio/internal/routes"
	"github.com/hollowaybooks/folio/internal/service"
	"github.com/hollowaybooks/folio/internal/shipping"
	"github.com/hollowaybooks/folio/internal/tax"
	"github.com/hollowaybooks/folio/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	logger.Info("connecting to database")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("running database migrations")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	provider, err := newPaymentProvider(cfg, logger)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	emails, err := email.NewService(newSender(cfg, logger), cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	rater := shipping.NewFlatRateRater(cfg.Shipping.FlatRateCents, cfg.Shipping.FreeOverCents)

	var taxCalc tax.Calculator
	if cfg.Tax.Rate > 0 {
		taxCalc = tax.NewPercentageCalculator(cfg.Tax.Rate)
	} else {
		taxCalc = tax.NewNoTaxCalculator()
	}

	catalogService := service.NewCatalogService(store, logger)
	cartService := service.NewCartService(store, logger)
	voucherService := service.NewVoucherService(store, logger)
	walletService := service.NewWalletService(store, logger)
	checkoutService := service.NewCheckoutService(store, rater, taxCalc, provider, publisher, logger)
	orderService := service.NewOrderService(store, provider, publisher, logger)

	if cfg.Worker.Enabled {
		w := worker.NewWorker(store, emails, publisher, worker.Config{
			PollInterval:      cfg.Worker.PollInterval,
			MaxConcurrency:    cfg.Worker.MaxConcurrency,
			LowStockThreshold: cfg.Worker.LowStockThreshold,
			AlertEmail:        cfg.Worker.AlertEmail,
		}, logger)
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", "error", err)
			}
		}()
	}

	tokens := auth.NewTokens(cfg.TokenSecret, cfg.TokenTTL)
	metrics := middleware.NewMetrics("folio")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		router.Logger(logger),
		middleware.WithIdentity(tokens),
	)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle(http.MethodGet, "/metrics", metrics.Handler())

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		SessionHandler:  api.NewSessionHandler(tokens, logger),
		ProductHandler:  api.NewProductHandler(catalogService, logger),
		CartHandler:     api.NewCartHandler(cartService, logger),
		CheckoutHandler: api.NewCheckoutHandler(checkoutService, logger),
		OrderHandler:    api.NewOrderHandler(orderService, logger),
		WalletHandler:   api.NewWalletHandler(walletService, logger),
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		ProductHandler:   admin.NewProductHandler(catalogService, logger),
		OrderHandler:     admin.NewOrderHandler(orderService, logger),
		VoucherHandler:   admin.NewVoucherHandler(voucherService, logger),
		InventoryHandler: admin.NewInventoryHandler(catalogService, logger),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPaymentProvider(cfg *internal.Config, logger *slog.Logger) (payment.Provider, error) {
	switch cfg.Payment.Provider {
	case "stripe":
		logger.Info("using stripe payment provider")
		return payment.NewStripeProvider(cfg.Payment.StripeSecretKey), nil
	case "paypal":
		logger.Info("using paypal payment provider")
		return payment.NewPayPalProvider(cfg.Payment.PayPalBaseURL, cfg.Payment.PayPalClientID, cfg.Payment.PayPalSecret), nil
	case "mock":
		logger.Warn("using mock payment provider, captures are not verified")
		return payment.NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown payment provider: %s", cfg.Payment.Provider)
}

func newPublisher(cfg *internal.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.Events.NATSURL == "" {
		logger.Info("no NATS url configured, events disabled")
		return events.NewNoopPublisher(), nil
	}
	pub, err := events.NewNATSPublisher(cfg.Events.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("connected to NATS", "url", cfg.Events.NATSURL)
	return pub, nil
}

func newSender(cfg *internal.Config, logger *slog.Logger) email.Sender {
	if cfg.Email.Host == "" {
		logger.Warn("no SMTP host configured, emails are logged only")
		return email.NewMockSender()
	}
	return email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

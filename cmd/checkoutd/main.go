package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/config"
	"github.com/nikolayk812/checkout-core/internal/httpapi"
	"github.com/nikolayk812/checkout-core/internal/logging"
	"github.com/nikolayk812/checkout-core/internal/memory"
	"github.com/nikolayk812/checkout-core/internal/metrics"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/nikolayk812/checkout-core/internal/repository"
	"github.com/nikolayk812/checkout-core/internal/service"
)

type stores struct {
	catalog   port.CatalogRepository
	ledger    port.InventoryLedger
	carts     port.CartRepository
	orders    port.OrderRepository
	customers port.CustomerRepository
	close     func()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logging.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	m := metrics.New()

	handler := httpapi.NewHandler(log, httpapi.Services{
		Carts:     service.NewCartService(st.catalog, st.carts, log),
		Checkout:  service.NewCheckoutService(st.carts, st.customers, st.ledger, st.orders, log, service.WithCheckoutObserver(m)),
		Orders:    service.NewOrderService(st.orders, log, service.WithOrderObserver(m)),
		Catalog:   service.NewCatalogService(st.catalog, st.ledger, log),
		Customers: service.NewCustomerService(st.customers),
	}, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Handle("/metrics", m.Handler())
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	log.Info("checkoutd shutdown complete")
	return nil
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")

		mem := memory.NewStore()
		return stores{
			catalog:   mem.Inventory,
			ledger:    mem.Inventory,
			carts:     mem.Carts,
			orders:    mem.Orders,
			customers: mem.Customers,
			close:     func() {},
		}, nil
	}

	if cfg.RunMigrations {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			return stores{}, fmt.Errorf("repository.Migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("pool.Ping: %w", err)
	}

	return stores{
		catalog:   repository.NewCatalog(pool),
		ledger:    repository.NewInventory(pool),
		carts:     repository.NewCart(pool),
		orders:    repository.NewOrder(pool),
		customers: repository.NewCustomer(pool),
		close:     pool.Close,
	}, nil
}

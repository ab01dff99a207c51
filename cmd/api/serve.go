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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/config"
	"github.com/MrJamesThe3rd/orcamento/internal/database"
	orcamentoHttp "github.com/MrJamesThe3rd/orcamento/internal/http"
	alertHandler "github.com/MrJamesThe3rd/orcamento/internal/http/alert"
	categoryHandler "github.com/MrJamesThe3rd/orcamento/internal/http/category"
	importHandler "github.com/MrJamesThe3rd/orcamento/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/orcamento/internal/http/matching"
	periodHandler "github.com/MrJamesThe3rd/orcamento/internal/http/period"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/orcamento/internal/ledger/store"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/orcamento/internal/matching/store"
	"github.com/MrJamesThe3rd/orcamento/internal/metrics"
)

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger := a.cfg, a.logger

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return a.fail("failed to migrate database", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return a.fail("failed to connect to database", err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mgr := newManager(cfg, reg, logger)

	var (
		ledgerService   = ledger.NewService(ledgerStore.New(db), mgr, logger)
		matchingService = matching.NewService(matchingStore.New(db))
	)

	now := time.Now()
	if _, err := ledgerService.OpenPeriod(ctx, now.Year(), int(now.Month())); err != nil {
		return a.fail("failed to open current period", err)
	}

	router := orcamentoHttp.New(
		orcamentoHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Gatherer: reg},
		categoryHandler.NewHandler(ledgerService),
		periodHandler.NewHandler(ledgerService),
		importHandler.NewHandler(ledgerService, matchingService),
		alertHandler.NewHandler(ledgerService),
		matchingHandler.NewHandler(matchingService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		logger.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return a.fail("server failed", err)
	}

	return nil
}

func newManager(cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) *manager.Manager {
	return manager.New(
		manager.WithPolicy(alert.Policy{HighValueRatio: cfg.Alerts.HighValueRatio}),
		manager.WithObserver(metrics.NewRecorder(reg)),
		manager.WithLogger(logger),
	)
}

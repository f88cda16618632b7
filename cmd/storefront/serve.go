package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/auth"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/checkout"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/delay"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/mail"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storefront"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/util"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, logger := e.cfg, e.logger

	secret := cfg.JWTSecret
	if secret == "" {
		// Validate already rejected an empty secret outside dev
		if secret, err = util.RandomToken(32); err != nil {
			return err
		}
		logger.Warn("JWT_SECRET not set, visitor tokens will not survive a restart")
	}
	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:  cfg.JWTIssuer,
		Secret:  secret,
		TTLDays: cfg.VisitorTokenTTLDays,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	catalog, err := products.Seeded()
	if err != nil {
		return err
	}

	var mailer mail.Mailer = mail.Nop{}
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	}

	registry := storefront.New(e.store, storefront.Options{
		AuthDelay:   delay.FromMillis(cfg.AuthLatencyMs),
		AdminEmails: cfg.AdminEmails,
		Metrics:     m,
		Logger:      logger,
	})
	svc := checkout.NewService(checkout.Options{
		Policy: checkout.ShippingPolicy{
			FreeThreshold: cfg.ShippingFreeThreshold,
			Fee:           cfg.ShippingFee,
		},
		Delay:    delay.FromMillis(cfg.CheckoutLatencyMs),
		Mailer:   mailer,
		Notifier: notify.Multi(notify.Context{}, notify.Log{Logger: logger}),
		Metrics:  m,
		Logger:   logger,
	})

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := storefront.NewRouter(storefront.RouterDeps{
		Store:    e.store,
		Registry: registry,
		JWT:      jwtMgr,
		Catalog:  catalog,
		Checkout: svc,
		Mailer:   mailer,
		Metrics:  m,
		Gatherer: reg,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

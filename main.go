package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	intconfig "busticket/internal/config"
	intdb "busticket/internal/db"
	router "busticket/internal/http"
	"busticket/internal/http/handlers"
	"busticket/internal/repositories"
	"busticket/internal/services"
	"busticket/internal/utils"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return err
	}
	utils.ConfigureLogger(env.LogLevel, env.LogFormat, os.Stdout)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := intconfig.OpenStore(ctx, env)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	if _, err := intdb.SeedRoutes(ctx, store, env.RoutesSeed); err != nil {
		return fmt.Errorf("seed routes: %w", err)
	}

	processor, err := newProcessor(env.Payment)
	if err != nil {
		return err
	}

	hs := &handlers.Handlers{
		Store:     store,
		Routes:    repositories.NewRouteRepository(store),
		Tickets:   repositories.NewTicketRepository(store),
		Payments:  repositories.NewPaymentRepository(store),
		Processor: processor,
		Auth: services.AuthService{
			Secret:            []byte(env.Auth.JWTSecret),
			AdminUsername:     env.Auth.AdminUsername,
			AdminPasswordHash: env.Auth.AdminPasswordHash,
			TTL:               env.Auth.TokenTTL,
		},
		Info: handlers.Info{
			StoreDriver:        env.StoreDriver,
			PaymentProcessor:   processor.Name(),
			ProviderConfigured: env.Payment.ProviderToken != "",
			AuthEnabled:        env.Auth.Enabled(),
			CORSOrigins:        len(env.CORSAllowedOrigins),
		},
		StartedAt: time.Now(),
	}
	r := router.NewRouter(env, hs)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogEvent("", "server", "start", "listening on "+env.AppAddr+" processor="+processor.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogEvent("", "server", "stop", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	utils.LogEvent("", "server", "stop", "server stopped cleanly")
	return nil
}

func newProcessor(cfg intconfig.PaymentEnv) (services.PaymentProcessor, error) {
	switch cfg.Provider {
	case "provider":
		p, err := services.NewProviderProcessor(cfg.ProviderURL, cfg.ProviderToken, nil)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return services.NewSimulatedProcessor(cfg.CardDelay, cfg.PSEDelay), nil
	}
}

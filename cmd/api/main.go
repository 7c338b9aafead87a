package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/auth"
	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/config"
	"github.com/AtheosYThomas/north-lions-v6/internal/notify"
	"github.com/AtheosYThomas/north-lions-v6/internal/storage/mongo"
	transporthttp "github.com/AtheosYThomas/north-lions-v6/internal/transport/http"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	root := &cobra.Command{
		Use:           "north-lions",
		Short:         "Membership back office API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(logger), reconcileCmd(logger), ensureIndexesCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func connect(ctx context.Context, cfg config.Config) (*mongo.Store, error) {
	return mongo.Connect(ctx, mongo.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
}

func serveCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			startupCtx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()

			store, err := connect(startupCtx, cfg)
			if err != nil {
				return fmt.Errorf("connect store: %w", err)
			}
			defer func() {
				closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer closeCancel()
				_ = store.Close(closeCtx)
			}()

			if err := mongo.EnsureIndexes(startupCtx, store); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}

			clk := clock.NewSystem()
			line := notify.New(cfg.LineChannelToken, logger)

			memberRepo := mongo.NewMemberRepository(store)
			memberSvc := app.NewMemberService(memberRepo, clk, logger)

			registrationRepo := mongo.NewRegistrationRepository(store)
			registrationSvc := app.NewRegistrationService(registrationRepo, memberSvc, clk, logger)

			financeRepo := mongo.NewFinanceRepository(store)
			financeSvc := app.NewFinanceService(financeRepo, clk, logger)

			eventRepo := mongo.NewEventRepository(store)
			eventSvc := app.NewEventService(eventRepo, line, clk, logger)

			announcementRepo := mongo.NewAnnouncementRepository(store)
			announcementSvc := app.NewAnnouncementService(announcementRepo, clk)

			messageRepo := mongo.NewMessageRepository(store)
			messageSvc := app.NewMessageService(messageRepo, memberRepo, clk, logger)

			tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
			verifier := auth.NewLineVerifier()

			router := transporthttp.NewRouter(transporthttp.RouterConfig{
				Tokens:        tokens,
				CORSOrigins:   cfg.CORSOrigins,
				Logger:        logger,
				Registrations: transporthttp.NewRegistrationHandler(registrationSvc, memberSvc),
				Finance:       transporthttp.NewFinanceHandler(financeSvc, memberSvc),
				Events:        transporthttp.NewEventHandler(eventSvc, memberSvc),
				Members:       transporthttp.NewMemberHandler(memberSvc, verifier, tokens),
				Announcements: transporthttp.NewAnnouncementHandler(announcementSvc, memberSvc),
				Webhook:       transporthttp.NewWebhookHandler(cfg.LineChannelSecret, messageSvc, memberSvc, logger),
			})

			srvErr := make(chan error, 1)
			go func() {
				logger.Info("api listening", zap.String("addr", cfg.ListenAddr))
				srvErr <- router.Listen(cfg.ListenAddr)
			}()

			stopCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-srvErr:
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
			case <-stopCtx.Done():
				logger.Info("shutdown signal received, stopping server")
			}

			if err := router.ShutdownWithTimeout(shutdownTimeout); err != nil {
				logger.Warn("server shutdown error", zap.Error(err))
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func reconcileCmd(logger *zap.Logger) *cobra.Command {
	var memberID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild donation aggregates from the ledger records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			startupCtx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()

			store, err := connect(startupCtx, cfg)
			if err != nil {
				return fmt.Errorf("connect store: %w", err)
			}
			defer func() { _ = store.Close(context.Background()) }()

			financeSvc := app.NewFinanceService(mongo.NewFinanceRepository(store), clock.NewSystem(), logger)

			if memberID != "" {
				stats, err := financeSvc.RebuildMemberStats(cmd.Context(), memberID)
				if err != nil {
					return err
				}
				logger.Info("member stats rebuilt",
					zap.String("member_id", memberID),
					zap.String("total_donation", stats.TotalDonation.String()),
					zap.Int("donation_count", stats.DonationCount),
				)
				return nil
			}

			if err := financeSvc.ReconcileAll(cmd.Context()); err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			logger.Info("reconcile complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "rebuild a single member instead of all")
	return cmd
}

func ensureIndexesCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the collection indexes the services rely on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()

			store, err := connect(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect store: %w", err)
			}
			defer func() { _ = store.Close(context.Background()) }()

			if err := mongo.EnsureIndexes(ctx, store); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			logger.Info("indexes ensured")
			return nil
		},
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/bidding"
	"github.com/datajunqer/bidding-app/internal/catalog"
	"github.com/datajunqer/bidding-app/internal/events"
	"github.com/datajunqer/bidding-app/internal/gateway"
	"github.com/datajunqer/bidding-app/internal/ledger"
	"github.com/datajunqer/bidding-app/internal/session"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := loadConfig()
	clock := clockwork.NewRealClock()

	// Seed the catalog. Items are created once here and never re-seeded.
	entries := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load catalog")
		}
		entries = loaded
	}
	items := catalog.Seed(entries, catalog.SeedConfig{
		StartDelay:   cfg.StartDelay,
		SlotGap:      cfg.SlotGap,
		ImageBaseURL: cfg.ImageBaseURL,
	}, clock.Now())

	log.Info().
		Int("items", len(items)).
		Dur("start_delay", cfg.StartDelay).
		Dur("slot_gap", cfg.SlotGap).
		Msg("catalog seeded")

	itemLedger := ledger.New(items)
	sessions := session.NewRegistry()

	// The gateway submits bids into the app; the app broadcasts acceptances
	// back through the gateway. Break the construction cycle with a late
	// bound submitter.
	submitter := &bidSubmitterRef{}
	gatewayCfg := gateway.DefaultConfig()
	gatewayCfg.ConnectionConfig.BroadcastBufferSize = cfg.BroadcastBuffer
	gatewayService := gateway.NewService(gatewayCfg, submitter, itemLedger, sessions, clock)

	broadcaster := events.Fanout{gatewayService}
	if cfg.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create NATS publisher")
		}
		defer publisher.Close()
		broadcaster = append(broadcaster, publisher)
	}

	submitter.app = bidding.NewApp(itemLedger, broadcaster, clock)

	server := setupServer(cfg, gatewayService, session.NewHandler(sessions))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := gatewayService.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()

	log.Info().Msg("auction server shutdown complete")
}

// bidSubmitterRef lets the gateway be constructed before the bidding app it
// submits into. The app field is set once during startup, before the server
// accepts connections.
type bidSubmitterRef struct {
	app *bidding.App
}

func (s *bidSubmitterRef) PlaceBid(itemID, bidderID string, amount bidding.Amount) (bidding.Outcome, error) {
	return s.app.PlaceBid(itemID, bidderID, amount)
}

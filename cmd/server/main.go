package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phishy-token-checker/pkg/checker"
	"github.com/phishy-token-checker/pkg/config"
	"github.com/phishy-token-checker/pkg/server"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	log.Info().Msg("🎣 Phishy Token Checker starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := cfg.Validate(); err != nil {
		// The server still answers requests, each one failing with an
		// explicit configuration error instead of crashing at boot.
		log.Warn().Err(err).Msg("⚠️ running without a usable Bitquery key")
	}

	srv := server.New(cfg, checker.New(cfg))
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpSrv.Addr).Msg("🌐 server started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})

	printSummary(cfg)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("error")
	}
	log.Info().Msg("goodbye 👋")
}

func printSummary(cfg *config.Config) {
	fmt.Println("\n" + strings.Repeat("═", 60))
	fmt.Println("  🎣 PHISHY TOKEN CHECKER - RUNNING")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("  Platforms: Four.Meme (BSC), Pump.fun (Solana)\n")
	fmt.Printf("  Web UI:    http://localhost:%d\n", cfg.Port)
	keyStatus := "❌ Missing (set BITQUERY_API_KEY)"
	if cfg.BitqueryAPIKey != "" {
		keyStatus = "✅ Configured"
	}
	fmt.Printf("  API key:   %s\n", keyStatus)
	fmt.Println(strings.Repeat("═", 60) + "\n")
}

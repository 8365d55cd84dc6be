package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/tg44/xmtp-js/internal/app"
	"github.com/tg44/xmtp-js/internal/relay"
)

var log = logging.Logger("xmtp/relay/main")

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var home, configPath, listen, logLevel string
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Run the in-memory XMTP relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			cfg, err := app.LoadConfig(home, configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Relay.Listen = listen
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := app.SetupLogging(cfg.LogLevel); err != nil {
				return err
			}

			srv := relay.NewServer(relay.ServerConfig{
				RateLimit: cfg.Relay.RateLimit,
				RateBurst: cfg.Relay.RateBurst,
				MaxQueue:  cfg.Relay.MaxQueue,
			})
			return serve(cfg.Relay.Listen, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&home, "home", "", "config dir (default ~/.xmtp)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	return cmd
}

func serve(addr string, h http.Handler) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Infow("relay listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Infow("relay stopped")
	return nil
}

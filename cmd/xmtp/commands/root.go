package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/tg44/xmtp-js/internal/app"
)

var log = logging.Logger("xmtp/cli")

var (
	home       string
	passphrase string
	relayURL   string
	configPath string
	logLevel   string

	wire *app.Wire
)

var errNoPassphrase = errors.New("passphrase required (-p)")

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "xmtp",
		Short:        "Wallet-linked end-to-end encrypted messaging",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := app.SetupLogging(cfg.LogLevel); err != nil {
				return err
			}
			wire, err = app.NewWire(cfg)
			if err != nil {
				return err
			}
			log.Debugw("wired", "home", cfg.Home, "relay", cfg.RelayURL)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.xmtp)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the wallet keystore")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (overrides config)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		walletCmd(),
		initCmd(),
		fingerprintCmd(),
		bundleCmd(),
		registerCmd(),
		sendCmd(),
		recvCmd(),
	)
	return root
}

func requirePassphrase() error {
	if passphrase == "" {
		return errNoPassphrase
	}
	return nil
}

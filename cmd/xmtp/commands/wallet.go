package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the local wallet key",
	}
	cmd.AddCommand(walletNewCmd(), walletImportCmd(), walletMnemonicCmd())
	return cmd
}

func walletNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a wallet key and seal it under the passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			addr, err := wire.Identity.CreateWallet(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallet created.\nAddress: %s\n", addr)
			return nil
		},
	}
}

// import reads the mnemonic from stdin so it stays out of shell history.
func walletImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Restore a wallet from a mnemonic read on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read mnemonic: %w", err)
			}
			addr, err := wire.Identity.ImportWallet(passphrase, strings.Join(strings.Fields(line), " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallet imported.\nAddress: %s\n", addr)
			return nil
		},
	}
}

func walletMnemonicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mnemonic",
		Short: "Print the wallet's backup mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			m, err := wire.Identity.Mnemonic(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tg44/xmtp-js/internal/domain"
)

// send <address> <message>: encrypt and send a message to the owner of <address>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <address> <message>",
		Short: "Encrypt and send a message to a wallet address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			to := domain.Address(args[0])
			if err := wire.Messages.SendMessage(cmd.Context(), passphrase, to, []byte(args[1])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
}

// recv: fetch and decrypt queued messages.
func recvCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt your queued messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			msgs, err := wire.Messages.ReceiveMessages(cmd.Context(), passphrase, limit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				ts := time.UnixMilli(m.Timestamp).Format(time.DateTime)
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s %s] %s\n", ts, m.From, m.Fingerprint, string(m.Plaintext))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of messages to fetch (0 = all)")
	return cmd
}

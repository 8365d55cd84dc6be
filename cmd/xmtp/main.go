package main

import (
	"os"

	"github.com/tg44/xmtp-js/cmd/xmtp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

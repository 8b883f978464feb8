package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/longfi/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lfctl: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lfctl",
		Short: "Encode, decode and replay LongFi monolithic datagrams",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.InitLogger("lfctl")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		encodeCmd(),
		decodeCmd(),
		replayCmd(),
		simulateCmd(),
		configCmd(),
	)
	return root
}

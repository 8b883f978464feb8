package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danmuck/longfi/internal/capture"
	"github.com/danmuck/longfi/internal/protocol"
)

func replayCmd() *cobra.Command {
	var showRaw bool
	cmd := &cobra.Command{
		Use:   "replay <capture.cbor>",
		Short: "Decode every frame in a capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			var total, failed int
			err = capture.Replay(f, func(d capture.Decoded) error {
				total++
				ts := d.Record.At.Format(time.RFC3339Nano)
				if d.Err != nil {
					failed++
					fmt.Fprintf(out, "%s  %-13s %v\n", ts, protocol.KindOf(d.Err), d.Err)
				} else {
					fmt.Fprintf(out, "%s  ok            %s len=%d\n", ts, d.Frame.Datagram, d.Frame.Payload.Len())
				}
				if showRaw {
					fmt.Fprintf(out, "    %s\n", hex.EncodeToString(d.Record.Raw))
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d frames, %d rejected\n", total, failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showRaw, "raw", false, "print raw frame bytes")
	return cmd
}

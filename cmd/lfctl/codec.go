package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/longfi/internal/protocol"
)

type encodeOptions struct {
	dg      protocol.Datagram
	payload string
}

func encodeCmd() *cobra.Command {
	var opts encodeOptions
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a datagram and print the frame as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseHex(opts.payload)
			if err != nil {
				return fmt.Errorf("payload: %w", err)
			}
			var buf [protocol.MaxFrameSize]byte
			n, err := protocol.Encode(opts.dg, payload, buf[:])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf[:n]))
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint32Var(&opts.dg.OUI, "oui", 0, "organization identifier")
	f.Uint32Var(&opts.dg.DID, "did", 0, "device identifier")
	f.Uint32Var(&opts.dg.FP, "fp", 0, "fingerprint supplied by the session layer")
	f.Uint32Var(&opts.dg.Seq, "seq", 0, "sequence number")
	f.BoolVar(&opts.dg.Flags.Downlink, "downlink", false, "datagram is destined for a device")
	f.BoolVar(&opts.dg.Flags.ShouldAck, "should-ack", false, "request acknowledgment")
	f.BoolVar(&opts.dg.Flags.CtsRts, "cts-rts", false, "ready to receive (uplink) or more data follows (downlink)")
	f.BoolVar(&opts.dg.Flags.Priority, "priority", false, "mark the datagram urgent")
	f.BoolVar(&opts.dg.Flags.LDPC, "ldpc", false, "payload is LDPC coded")
	f.StringVar(&opts.payload, "payload", "", "payload bytes as hex")
	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a hex frame and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args[0])
			if err != nil {
				return fmt.Errorf("frame: %w", err)
			}
			frame, err := protocol.DecodeFrame(raw)
			if err != nil {
				return err
			}
			printFrame(cmd.OutOrStdout(), frame)
			return nil
		},
	}
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "").Replace(s)
	return hex.DecodeString(s)
}

func printFrame(w io.Writer, f protocol.Frame) {
	dg := f.Datagram
	fmt.Fprintf(w, "oui:        %d\n", dg.OUI)
	fmt.Fprintf(w, "did:        %d\n", dg.DID)
	fmt.Fprintf(w, "fp:         %#08x\n", dg.FP)
	fmt.Fprintf(w, "seq:        %d\n", dg.Seq)
	fmt.Fprintf(w, "downlink:   %t\n", dg.Flags.Downlink)
	fmt.Fprintf(w, "should_ack: %t\n", dg.Flags.ShouldAck)
	fmt.Fprintf(w, "cts_rts:    %t\n", dg.Flags.CtsRts)
	fmt.Fprintf(w, "priority:   %t\n", dg.Flags.Priority)
	fmt.Fprintf(w, "ldpc:       %t\n", dg.Flags.LDPC)
	fmt.Fprintf(w, "payload:    %d bytes %s\n", f.Payload.Len(), hex.EncodeToString(f.Payload.Bytes()))
}

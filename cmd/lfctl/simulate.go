package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/longfi/internal/capture"
	"github.com/danmuck/longfi/internal/config"
	"github.com/danmuck/longfi/internal/logging"
	"github.com/danmuck/longfi/internal/observability"
	"github.com/danmuck/longfi/internal/protocol"
	"github.com/danmuck/longfi/internal/protocol/session"
	"github.com/danmuck/longfi/internal/transport"
)

type simulateOptions struct {
	configPath string
	count      int
	payload    string
	fp         uint32
	shouldAck  bool
	metrics    bool
}

// simulateCmd sends datagrams from a device identity to a gateway over an
// in-memory link, exercising the same sender/receiver path a radio would.
func simulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Send datagrams over an in-memory link and print what the gateway accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "device config path (defaults are used when empty)")
	f.IntVar(&opts.count, "count", 3, "number of datagrams to send")
	f.StringVar(&opts.payload, "payload", "68656c6c6f", "payload bytes as hex")
	f.Uint32Var(&opts.fp, "fp", 0, "static fingerprint both ends agree on")
	f.BoolVar(&opts.shouldAck, "should-ack", false, "set the should_ack flag")
	f.BoolVar(&opts.metrics, "metrics", false, "print codec and transport metrics after the run")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	cfg := config.DefaultNodeConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadNodeConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyLogLevel(cfg.LogLevel)
	if opts.count < 1 {
		return fmt.Errorf("count must be positive: %d", opts.count)
	}
	payload, err := parseHex(opts.payload)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RxTimeout)
	defer cancel()

	devEnd, gwEnd := transport.NewLoopbackPair(opts.count)
	defer devEnd.Close()

	fp := session.StaticFingerprint(opts.fp)
	sender := transport.NewSender(devEnd, cfg.Identity,
		transport.WithFingerprinter(fp),
		transport.WithSequencer(session.NewSequencer(cfg.SeqStart)),
		transport.WithSenderConfig(cfg.Transport),
		transport.WithSenderLogger(log.Logger.With().Str("role", "device").Logger()),
	)

	gwIdentity := session.Identity{OUI: cfg.Identity.OUI, AnyDevice: true}
	rxOpts := []transport.ReceiverOption{
		transport.WithFilter(session.Filter{Identity: gwIdentity, Fingerprinter: fp}),
		transport.WithReceiverConfig(cfg.Transport),
		transport.WithReceiverLogger(log.Logger.With().Str("role", "gateway").Logger()),
	}
	if cfg.CapturePath != "" {
		out, err := os.Create(cfg.CapturePath)
		if err != nil {
			return err
		}
		defer out.Close()
		rxOpts = append(rxOpts, transport.WithRecorder(capture.NewWriter(out)))
	}
	receiver := transport.NewReceiver(gwEnd, gwIdentity, rxOpts...)

	for i := 0; i < opts.count; i++ {
		if _, err := sender.Send(ctx, protocol.Flags{ShouldAck: opts.shouldAck}, payload); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	for i := 0; i < opts.count; i++ {
		frame, err := receiver.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("gateway received %d of %d datagrams: %w", i, opts.count, err)
			}
			fmt.Fprintf(w, "rejected: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "accepted: %s len=%d\n", frame.Datagram, frame.Payload.Len())
	}
	if opts.metrics {
		return observability.WriteMetrics(w)
	}
	return nil
}

// applyLogLevel overrides the active logging level with a config value and
// rebuilds the process logger from the updated configuration.
func applyLogLevel(raw string) {
	lvl, ok := logging.ParseLevel(raw)
	if !ok {
		return
	}
	cfg := logging.Active()
	if cfg.Level == lvl {
		return
	}
	cfg.Level = lvl
	logging.Apply(cfg)
	observability.InitLogger("lfctl")
}

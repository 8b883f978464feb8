package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/longfi/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate node configuration",
	}

	var kind, output string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := output
			if target == "" {
				target = kind + ".toml"
			}
			if err := config.WriteTemplate(target, kind, force); err != nil {
				return err
			}
			log.Info().Str("kind", kind).Str("path", target).Msg("wrote config template")
			return nil
		},
	}
	initCmd.Flags().StringVar(&kind, "kind", "device", "config kind: device|gateway")
	initCmd.Flags().StringVar(&output, "output", "", "output path (defaults to <kind>.toml)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadNodeConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (name=%s oui=%d did=%d any_device=%t)\n",
				args[0], cfg.Name, cfg.Identity.OUI, cfg.Identity.DID, cfg.Identity.AnyDevice)
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

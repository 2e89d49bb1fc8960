// Command hookbot relays provider webhooks (GitHub, GitLab, CircleCI, Netlify
// and plain JSON) into chat messages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/hookbot/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func NewHookbotCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "hookbot",
		Short:         "Forward webhooks as chat messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: discovered)")

	cmd.AddCommand(
		newServeCommand(&configPath),
		newInstructionsCommand(&configPath),
		newProvidersCommand(),
		newConfigCommand(&configPath),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hookbot version %s\n", version)
		},
	}
}

// resolveConfigPath falls back to the standard locations when --config is
// not given. An empty path means environment-only configuration.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.Discover()
}

func main() {
	if err := NewHookbotCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/hookbot/internal/config"
	"github.com/mattjoyce/hookbot/internal/secret"
)

func newInstructionsCommand(configPath *string) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "instructions <provider> <recipient>",
		Short: "Print the webhook URL and secret for a chat",
		Long: "Print what the /webhook bot command would reply with, without going through chat.\n" +
			"Only the base secret is required; transport tokens are not.\n" +
			"Group chat IDs are negative, so separate them with --:\n" +
			"  hookbot instructions github -- -1001234567890",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(resolveConfigPath(*configPath))
			if err != nil {
				return err
			}
			deriver, err := secret.NewDeriver(cfg.Secret)
			if err != nil {
				return err
			}
			registry, err := buildRegistry(deriver)
			if err != nil {
				return err
			}

			p, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown provider %q (available: %s)", args[0], strings.Join(registry.Names(), ", "))
			}

			if baseURL == "" {
				baseURL = cfg.BaseURL()
			}
			if baseURL == "" {
				return fmt.Errorf("no base url: pass --url or set server.public_url")
			}

			fmt.Fprint(cmd.OutOrStdout(), p.Instructions(baseURL, args[1]))
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Public base URL of this server (default: server.public_url)")
	return cmd
}

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported webhook providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Secrets are not needed to list names.
			deriver, err := secret.NewDeriver("-")
			if err != nil {
				return err
			}
			registry, err := buildRegistry(deriver)
			if err != nil {
				return err
			}
			for _, p := range registry.All() {
				kinds := p.Handlers().Kinds()
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d event kinds\n", p.Name(), len(kinds))
			}
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/hookbot/internal/config"
	"github.com/mattjoyce/hookbot/internal/doctor"
	"github.com/mattjoyce/hookbot/internal/secret"
)

var errValidation = errors.New("configuration is invalid")

func newConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	var asJSON bool
	check := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath(*configPath)
			cfg, err := config.Read(path)
			if err != nil {
				return err
			}
			result := doctor.New(cfg).Validate()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printSettings(out, path, cfg)
				printValidationSummary(out, result)
			}

			if !result.Valid {
				return errValidation
			}
			return nil
		},
	}
	check.Flags().BoolVar(&asJSON, "json", false, "Print the validation result as JSON")

	cmd.AddCommand(check)
	return cmd
}

func printSettings(out io.Writer, path string, cfg *config.Config) {
	source := path
	if source == "" {
		source = "(environment only)"
	}
	baseURL := cfg.BaseURL()
	if baseURL == "" {
		baseURL = "(from request)"
	}
	chatMode := config.UpdatesOff
	if cfg.ChatEnabled() {
		chatMode = cfg.Telegram.Updates
	}

	fmt.Fprintf(out, "Config:             %s\n", source)
	fmt.Fprintf(out, "Transport:          %s\n", cfg.Transport)
	fmt.Fprintf(out, "Listen:             %s\n", cfg.Server.Listen)
	fmt.Fprintf(out, "Public URL:         %s\n", baseURL)
	fmt.Fprintf(out, "Max body size:      %s\n", cfg.Server.MaxBodySize)
	fmt.Fprintf(out, "Chat commands:      %s\n", chatMode)
	fmt.Fprintf(out, "Secret fingerprint: %s\n", secret.Fingerprint(cfg.Secret))
}

func printValidationSummary(out io.Writer, result *doctor.Result) {
	printIssues := func(level string, issues []doctor.Issue) {
		for _, issue := range issues {
			if issue.Field != "" {
				fmt.Fprintf(out, "  %s [%s] %s: %s\n", level, issue.Category, issue.Field, issue.Message)
			} else {
				fmt.Fprintf(out, "  %s [%s] %s\n", level, issue.Category, issue.Message)
			}
		}
	}

	if !result.Valid {
		fmt.Fprintf(out, "Validation: failed (%d error(s), %d warning(s))\n", len(result.Errors), len(result.Warnings))
		printIssues("ERROR", result.Errors)
		printIssues("WARN", result.Warnings)
		return
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "Validation: OK with %d warning(s)\n", len(result.Warnings))
		printIssues("WARN", result.Warnings)
		return
	}
	fmt.Fprintln(out, "Validation: OK")
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-g2p/internal/g2p"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			codes := g2p.SupportedLanguages(cmd.Context(), cfg.Engine.EspeakCommand, slog.Default())
			for _, code := range codes {
				_, _ = fmt.Fprintln(os.Stdout, code)
			}

			return nil
		},
	}

	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/example/go-g2p/internal/doctor"
	"github.com/example/go-g2p/internal/engine"
	"github.com/example/go-g2p/internal/pinyinipa"
	"github.com/example/go-g2p/internal/separator"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local engine and table checks",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			command := cfg.Engine.EspeakCommand
			if command == "" {
				command = "espeak-ng"
			}

			dcfg := doctor.Config{
				EspeakCommand: command,
				EspeakVersion: func() (string, error) {
					return probeEspeakVersion(cobraCmd.Context(), command)
				},
				Languages:   collectEspeakLanguages(cobraCmd.Context(), cfg.Language, command),
				PinyinTable: checkPinyinTable,
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					_, _ = fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}

// probeEspeakVersion runs `espeak-ng --version` and returns its output.
func probeEspeakVersion(ctx context.Context, command string) (string, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return "", fmt.Errorf("parse espeak command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("empty espeak command")
	}

	args := append(argv[1:], "--version")
	out, err := exec.CommandContext(ctx, argv[0], args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s --version failed: %w", argv[0], err)
	}

	return strings.TrimSpace(string(out)), nil
}

// collectEspeakLanguages returns a probe over the espeak voice inventory.
// If the engine cannot be constructed the probe reports an empty inventory
// and the doctor check fails with a useful message.
func collectEspeakLanguages(ctx context.Context, language, command string) doctor.LanguagesFunc {
	return func() []string {
		eng, err := engine.NewEspeak(command, language, separator.Default(), false, slog.Default())
		if err != nil {
			return nil
		}
		return eng.Languages(ctx)
	}
}

// checkPinyinTable exercises the mandarin syllable table with known inputs.
func checkPinyinTable() error {
	for _, syllable := range []string{"ni3", "hao3", "zhi1"} {
		if _, err := pinyinipa.Lookup(syllable); err != nil {
			return fmt.Errorf("lookup %q: %w", syllable, err)
		}
	}
	return nil
}

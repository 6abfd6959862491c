package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/go-g2p/internal/g2p"
	"github.com/spf13/cobra"
)

func newPhonemizeCmd() *cobra.Command {
	var text string
	var in string
	var out string

	cmd := &cobra.Command{
		Use:   "phonemize",
		Short: "Convert text lines to phoneme tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			lines, err := readInputLines(text, cmd.Flags().Changed("text"), in, os.Stdin)
			if err != nil {
				return err
			}

			w, err := g2p.New(cfg.Language, g2p.ConfigFrom(cfg, slog.Default()))
			if err != nil {
				return err
			}

			results := w.PhonemizeBatchResults(cmd.Context(), lines)
			outLines := make([]string, len(results))
			failed := 0
			for i, r := range results {
				outLines[i] = r.Tokens
				if r.Status.Failed() {
					failed++
				}
			}
			if failed > 0 {
				slog.Warn("some lines failed phonemization", "failed", failed, "total", len(lines))
			}

			return writeOutputLines(out, outLines, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to phonemize (if empty, read lines from --in)")
	cmd.Flags().StringVar(&in, "in", "-", "Input file with one utterance per line ('-' for stdin)")
	cmd.Flags().StringVar(&out, "out", "-", "Output file ('-' for stdout)")

	return cmd
}

// readInputLines collects input utterances from --text, a file, or stdin.
// A set --text flag wins even when its value is blank, so explicit empty
// input phonemizes to empty output instead of blocking on stdin. Every
// input line yields exactly one entry, including empty lines, so the output
// stays aligned with the input.
func readInputLines(text string, textSet bool, inPath string, stdin io.Reader) ([]string, error) {
	if textSet {
		return strings.Split(text, "\n"), nil
	}

	var r io.Reader
	if inPath == "" || inPath == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("stdin reader is nil")
		}
		r = stdin
	} else {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	return scanLines(r)
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func writeOutputLines(outPath string, lines []string, stdout io.Writer) error {
	var w io.Writer
	if outPath == "" || outPath == "-" {
		if stdout == nil {
			return fmt.Errorf("stdout writer is nil")
		}
		w = stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return bw.Flush()
}

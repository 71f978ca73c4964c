// Package main provides the bnf2html binary: it renders a W3C-style BNF
// grammar description as a standalone HTML document.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tersedata/terse/internal/bnf"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "bnf2html [file]",
		Short: "Render a BNF grammar description as HTML",
		Long: `bnf2html reads a grammar description ('[N] name ::= expression'
productions with '#' prose lines) from a file or stdin and writes an HTML
rendering with one anchor per production and cross-linked references.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, output, title)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file ('-' for stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Document title (defaults to the input file name)")

	return cmd
}

func run(path, output, title string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	grammar, err := bnf.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing grammar: %w", err)
	}

	if title == "" {
		title = "Grammar"
		if path != "-" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}

	out := io.Writer(os.Stdout)
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return bnf.RenderHTML(out, grammar, title)
}

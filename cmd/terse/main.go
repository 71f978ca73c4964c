// Package main provides the terse binary: Turtle/TriG/N-Quads parsing and
// canonical N-Quads conversion from the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tersedata/terse/internal/rdfio"
	"github.com/tersedata/terse/pkg/nquads"
	"github.com/tersedata/terse/pkg/rdf"
)

const (
	Version = "0.1.0"
	appName = "terse"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "RDF Turtle/TriG toolkit",
		Long: `Terse parses Turtle, TriG, N-Triples and N-Quads documents and
serializes them to canonical N-Quads: sorted statements, deterministic
blank node labels, fully expanded IRIs.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(convertCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func convertCmd() *cobra.Command {
	var (
		graphIRI string
		baseIRI  string
		format   string
		output   string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert an RDF document to canonical N-Quads",
		Long: `Convert reads one Turtle, TriG, N-Triples or N-Quads document (a file
argument, or stdin when absent or '-') and writes its canonical N-Quads
serialization. With --graph, statements without an explicit graph are
tagged with the given named graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runConvert(path, graphIRI, baseIRI, format, output, logLevel)
		},
	}

	cmd.Flags().StringVar(&graphIRI, "graph", "", "Named graph IRI for statements lacking one")
	cmd.Flags().StringVar(&baseIRI, "base", "", "Base IRI for resolving relative references")
	cmd.Flags().StringVar(&format, "format", "auto", "Input format (turtle, trig, ntriples, nquads, auto)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file ('-' for stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func runConvert(path, graphIRI, baseIRI, format, output, logLevel string) error {
	logger := newLogger(logLevel)

	parser, err := selectParser(format, path)
	if err != nil {
		return err
	}

	in, name, err := openInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	ds, err := parser.Parse(in, baseIRI)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Info("parsed input",
		"file", name,
		"format", parser.ContentType(),
		"quads", ds.Len(),
		"elapsed", time.Since(start))

	if graphIRI != "" {
		ds = tagDefaultGraph(ds, rdf.NewNamedNode(graphIRI))
		logger.Debug("tagged default graph statements", "graph", graphIRI)
	}

	out, closeOut, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := nquads.NewWriter(out).WriteDataset(ds); err != nil {
		return fmt.Errorf("serializing %s: %w", name, err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	l := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}

// selectParser maps the --format flag to a parser, falling back to the
// file extension (or Turtle for stdin) on "auto".
func selectParser(format, path string) (rdfio.Parser, error) {
	switch strings.ToLower(format) {
	case "turtle", "ttl", "n3":
		return rdfio.ForContentType("text/turtle")
	case "trig":
		return rdfio.ForContentType("application/trig")
	case "ntriples", "nt":
		return rdfio.ForContentType("application/n-triples")
	case "nquads", "nq":
		return rdfio.ForContentType("application/n-quads")
	case "auto", "":
		if path == "-" {
			return rdfio.ForContentType("text/turtle")
		}
		return rdfio.ForPath(path)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// tagDefaultGraph moves every default-graph quad into the target graph.
// Quads already carrying a graph name keep it.
func tagDefaultGraph(ds *rdf.Dataset, graph rdf.Term) *rdf.Dataset {
	tagged := rdf.NewDataset()
	for _, q := range ds.All() {
		if _, isDefault := q.Graph.(*rdf.DefaultGraph); isDefault {
			tagged.Add(rdf.NewQuad(q.Subject, q.Predicate, q.Object, graph))
		} else {
			tagged.Add(q)
		}
	}
	return tagged
}

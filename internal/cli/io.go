package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"road_simplify/pkg/graph"
)

// ioOpts holds the --input and --output flags. An empty value or "-"
// means stdin or stdout.
type ioOpts struct {
	input  string
	output string
}

func (o *ioOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "input file (default stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
}

func isStd(path string) bool { return path == "" || path == "-" }

func (o *ioOpts) open(cmd *cobra.Command) (io.ReadCloser, error) {
	if isStd(o.input) {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(o.input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func (o *ioOpts) create(cmd *cobra.Command) (io.WriteCloser, error) {
	if isStd(o.output) {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(o.output)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// readGraph loads the record input.
func (o *ioOpts) readGraph(cmd *cobra.Command, sep rune) (*graph.Graph, error) {
	r, err := o.open(cmd)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	g, err := graph.ReadRecords(r, sep)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return g, nil
}

// writeOutput runs fn against the output and closes it, keeping the first error.
func (o *ioOpts) writeOutput(cmd *cobra.Command, fn func(io.Writer) error) (err error) {
	w, err := o.create(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return fn(w)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

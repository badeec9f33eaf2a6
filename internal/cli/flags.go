package cli

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
	"github.com/matzehuels/dirgraph/pkg/transform"
)

// transformFlags holds the graph transform flags shared by render, filter
// and tree.
type transformFlags struct {
	include    []string
	exclude    []string
	abstract   []string
	highlight  []string
	ignoreFile string

	inputFormat string
	noCache     bool
	refresh     bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.include, "include", "i", nil, "keep only files whose path contains one of these substrings")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "drop files whose path contains one of these substrings")
	cmd.Flags().StringSliceVar(&f.abstract, "abstract", nil, "collapse everything under these directories into one node")
	cmd.Flags().StringSliceVar(&f.highlight, "highlight", nil, "highlight files whose path contains one of these substrings")
	cmd.Flags().StringVar(&f.ignoreFile, "ignore-file", "", "drop files matching the gitignore-style patterns in this file")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "graph document format when reading stdin: json (default), yaml")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the local cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// options returns the transform part of the pipeline options, reading the
// ignore file when one is set.
func (f *transformFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Include:   f.include,
		Exclude:   f.exclude,
		Abstract:  f.abstract,
		Highlight: f.highlight,
		Refresh:   f.refresh,
	}
	if f.ignoreFile != "" {
		lines, err := transform.ReadIgnoreFile(f.ignoreFile)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "ignore file not found: %s", f.ignoreFile)
			}
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read ignore file %s", f.ignoreFile)
		}
		opts.Ignore = lines
	}
	return opts, nil
}

// stdinFormat validates --input-format.
func (f *transformFlags) stdinFormat() (graph.Format, error) {
	switch strings.ToLower(f.inputFormat) {
	case "", string(graph.FormatJSON):
		return graph.FormatJSON, nil
	case string(graph.FormatYAML), "yml":
		return graph.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be json or yaml)", f.inputFormat)
}

// loadGraph reads the graph document named by args, or stdin when args is
// empty or "-".
func (f *transformFlags) loadGraph(ctx context.Context, r *pipeline.Runner, stdin io.Reader, args []string) (graph.Graph, error) {
	if len(args) == 1 && args[0] != "-" {
		return r.LoadFile(ctx, args[0])
	}
	format, err := f.stdinFormat()
	if err != nil {
		return graph.Graph{}, err
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	return r.Decode(ctx, "stdin", data, format)
}

package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/config"
	"github.com/roach88/jpack/internal/value"
)

// CodecFlags are the per-command overrides for codec.Options.
type CodecFlags struct {
	SortKeys         bool
	PreserveNaN      bool
	PreserveInfinite bool
	ErrorOnNaN       bool
	ErrorOnInfinite  bool
}

func addCodecFlags(cmd *cobra.Command, f *CodecFlags) {
	cmd.Flags().BoolVar(&f.SortKeys, "sort-keys", false, "sort object keys before deduplicating schemas")
	cmd.Flags().BoolVar(&f.PreserveNaN, "preserve-nan", false, "encode NaN as N|0 instead of null")
	cmd.Flags().BoolVar(&f.PreserveInfinite, "preserve-infinite", false, "encode infinities as N|+ and N|- instead of null")
	cmd.Flags().BoolVar(&f.ErrorOnNaN, "error-on-nan", false, "fail on NaN unless --preserve-nan is set")
	cmd.Flags().BoolVar(&f.ErrorOnInfinite, "error-on-infinite", false, "fail on infinities unless --preserve-infinite is set")
}

// resolveOptions loads --config when given and applies every codec flag
// that was set explicitly on the command line.
func resolveOptions(cmd *cobra.Command, root *RootOptions, f *CodecFlags) (codec.Options, error) {
	opts := codec.DefaultOptions()
	if root.Config != "" {
		loaded, err := config.Load(root.Config)
		if err != nil {
			return codec.Options{}, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	override := func(name string, dst *bool, v bool) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("sort-keys", &opts.SortKeys, f.SortKeys)
	override("preserve-nan", &opts.PreserveNaN, f.PreserveNaN)
	override("preserve-infinite", &opts.PreserveInfinite, f.PreserveInfinite)
	override("error-on-nan", &opts.ErrorOnNaN, f.ErrorOnNaN)
	override("error-on-infinite", &opts.ErrorOnInfinite, f.ErrorOnInfinite)
	return opts, nil
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

// readJSON reads the input and parses it as a JSON tree.
func readJSON(cmd *cobra.Command, f *OutputFormatter, args []string) (value.Value, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, fail(f, ExitCommandError, ErrCodeReadFailed, "reading input", err)
	}
	v, err := value.Parse(data)
	if err != nil {
		return nil, fail(f, ExitCommandError, ErrCodeParseFailed, "parsing input", err)
	}
	return v, nil
}

// writeFile writes data to path, or to the command's stdout when path is
// empty.
func writeFile(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// codecFailure reports a codec error under its own code. Anything else
// is a generic failure.
func codecFailure(f *OutputFormatter, message string, err error) error {
	var cerr *codec.Error
	if errors.As(err, &cerr) {
		return fail(f, ExitFailure, string(cerr.Code), message, err)
	}
	return fail(f, ExitFailure, ErrCodeGeneric, message, err)
}

package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/value"
	"github.com/roach88/jpack/internal/wire"
)

// DecompressOptions holds flags for the decompress command.
type DecompressOptions struct {
	*RootOptions
	Output string
	Zstd   bool
	Embed  string
	Pretty bool

	// MaxUnpacked caps the decompressed size of a zstd frame.
	MaxUnpacked uint64
}

// NewDecompressCommand creates the decompress command.
func NewDecompressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecompressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decompress [file]",
		Short: "Restore a JSON document from its wire form",
		Long: `Decode a [values, root] wire document back into JSON.

Reads the named file, or stdin when no file is given. zstd frames are
detected automatically; --zstd makes a missing frame an error.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Zstd, "zstd", false, "input is a zstd-compressed wire document")
	cmd.Flags().StringVar(&opts.Embed, "embed", "", "read the wire document from under this object key")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the restored JSON")
	cmd.Flags().Uint64Var(&opts.MaxUnpacked, "max-unpacked", wire.MaxUnpackedSize, "largest decompressed zstd frame accepted, in bytes")
	cmd.MarkFlagsMutuallyExclusive("zstd", "embed")

	return cmd
}

func runDecompress(opts *DecompressOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := readInput(cmd, args)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeReadFailed, "reading input", err)
	}

	var c codec.Compressed
	switch {
	case opts.Zstd || wire.IsPacked(data):
		formatter.VerboseLog("Reading zstd frame (%d bytes)", len(data))
		c, err = wire.UnpackWithLimit(data, opts.MaxUnpacked)
	case opts.Embed != "":
		c, err = wire.Extract(opts.Embed, data)
	default:
		c, err = wire.Unmarshal(data)
	}
	if err != nil {
		return codecFailure(formatter, "reading wire document", err)
	}

	v, err := codec.Decompress(c)
	if err != nil {
		return codecFailure(formatter, "decompressing", err)
	}

	Logger().Debug("decompress",
		zap.Int("values", len(c.Values)),
		zap.String("root", c.Root))

	out, err := marshalValue(v, opts.Pretty)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "encoding output", err)
	}

	if opts.Output != "" {
		if err := writeFile(cmd, opts.Output, append(out, '\n')); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{"output": opts.Output, "bytes": len(out) + 1})
		}
		fmt.Fprintf(formatter.Writer, "✓ Restored %d value(s) to %s\n", len(c.Values), opts.Output)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(json.RawMessage(out))
	}
	return writeFile(cmd, "", append(out, '\n'))
}

func marshalValue(v value.Value, pretty bool) ([]byte, error) {
	if pretty {
		return value.MarshalIndent(v, "", "  ")
	}
	return value.Marshal(v)
}

package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/wire"
)

// CompressOptions holds flags for the compress command.
type CompressOptions struct {
	*RootOptions
	Codec  CodecFlags
	Output string // output file path
	Zstd   bool   // wrap the wire document in a zstd frame
	Embed  string // nest the wire document under this key
}

// CompressResult is the JSON payload reported by compress.
type CompressResult struct {
	Root       string `json:"root"`
	ValueCount int    `json:"value_count"`
	Bytes      int    `json:"bytes"`
	Output     string `json:"output,omitempty"`

	// Document is the wire document when it was not written to a file.
	Document json.RawMessage `json:"document,omitempty"`
}

// NewCompressCommand creates the compress command.
func NewCompressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Compress a JSON document",
		Long: `Compress a JSON document into the [values, root] wire form.

Reads the named file, or stdin when no file is given. Options come from
--config first; flags given on the command line override them.

With --zstd the wire document is written as a binary zstd frame and is
never wrapped in the JSON response envelope.`,
		Example: `  jpack compress data.json
  jpack compress --sort-keys -o data.jpack.json data.json
  cat data.json | jpack compress --zstd -o data.jpack.zst`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(opts, args, cmd)
		},
	}

	addCodecFlags(cmd, &opts.Codec)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Zstd, "zstd", false, "write a zstd-compressed wire document")
	cmd.Flags().StringVar(&opts.Embed, "embed", "", "nest the wire document under this object key")
	cmd.MarkFlagsMutuallyExclusive("zstd", "embed")

	return cmd
}

func runCompress(opts *CompressOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	codecOpts, err := resolveOptions(cmd, opts.RootOptions, &opts.Codec)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "loading config", err)
	}
	formatter.VerboseLog("Options: %+v", codecOpts)

	v, err := readJSON(cmd, formatter, args)
	if err != nil {
		return err
	}

	c, err := codec.Compress(v, codecOpts)
	if err != nil {
		return codecFailure(formatter, "compressing", err)
	}

	var data []byte
	switch {
	case opts.Zstd:
		data, err = wire.Pack(c)
	case opts.Embed != "":
		data, err = wire.Embed(opts.Embed, c)
	default:
		data, err = wire.Marshal(c)
	}
	if err != nil {
		return codecFailure(formatter, "encoding wire document", err)
	}

	Logger().Debug("compress",
		zap.Int("values", len(c.Values)),
		zap.String("root", c.Root),
		zap.Int("bytes", len(data)),
		zap.Bool("zstd", opts.Zstd))

	result := CompressResult{
		Root:       c.Root,
		ValueCount: len(c.Values),
		Bytes:      len(data),
		Output:     opts.Output,
	}

	if opts.Output != "" {
		if err := writeFile(cmd, opts.Output, data); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Compressed %d value(s) to %s (%d bytes, root %q)\n",
			result.ValueCount, opts.Output, result.Bytes, result.Root)
		return nil
	}

	if opts.Zstd {
		return writeFile(cmd, "", data)
	}
	if formatter.Format == "json" {
		result.Document = data
		return formatter.Success(result)
	}
	return writeFile(cmd, "", append(data, '\n'))
}

package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/value"
	"github.com/roach88/jpack/internal/wire"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Codec CodecFlags
}

// StatsResult reports how well a document deduplicates.
type StatsResult struct {
	codec.Stats

	InputBytes  int     `json:"input_bytes"`
	WireBytes   int     `json:"wire_bytes"`
	PackedBytes int     `json:"packed_bytes"`
	Ratio       float64 `json:"ratio"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Report value and schema counts for a JSON document",
		Long: `Compress a JSON document and report what the value list holds.

The ratio compares the wire document with the compact input JSON.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args, cmd)
		},
	}

	addCodecFlags(cmd, &opts.Codec)

	return cmd
}

func runStats(opts *StatsOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	codecOpts, err := resolveOptions(cmd, opts.RootOptions, &opts.Codec)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "loading config", err)
	}

	v, err := readJSON(cmd, formatter, args)
	if err != nil {
		return err
	}

	c, err := codec.Compress(v, codecOpts)
	if err != nil {
		return codecFailure(formatter, "compressing", err)
	}

	result, err := computeStats(v, c)
	if err != nil {
		return codecFailure(formatter, "measuring", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Values:  %d\n", result.Entries)
	fmt.Fprintf(w, "Schemas: %d\n", result.Schemas)
	kinds := make([]string, 0, len(result.ByKind))
	for k := range result.ByKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-8s %d\n", k, result.ByKind[k])
	}
	fmt.Fprintf(w, "Input:   %d bytes\n", result.InputBytes)
	fmt.Fprintf(w, "Wire:    %d bytes (%.2fx)\n", result.WireBytes, result.Ratio)
	fmt.Fprintf(w, "Packed:  %d bytes\n", result.PackedBytes)
	return nil
}

func computeStats(v value.Value, c codec.Compressed) (StatsResult, error) {
	input, err := value.Marshal(v)
	if err != nil {
		return StatsResult{}, err
	}
	doc, err := wire.Marshal(c)
	if err != nil {
		return StatsResult{}, err
	}
	packed, err := wire.Pack(c)
	if err != nil {
		return StatsResult{}, err
	}

	result := StatsResult{
		Stats:       codec.ComputeStats(c),
		InputBytes:  len(input),
		WireBytes:   len(doc),
		PackedBytes: len(packed),
	}
	if len(input) > 0 {
		result.Ratio = float64(len(doc)) / float64(len(input))
	}
	return result, nil
}

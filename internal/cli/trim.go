package cli

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/jpack/internal/value"
)

// TrimOptions holds flags for the trim command.
type TrimOptions struct {
	*RootOptions
	Recursive bool
	Pretty    bool
}

// NewTrimCommand creates the trim command.
func NewTrimCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrimOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trim [file]",
		Short: "Remove null properties from a JSON object",
		Long: `Remove properties whose value is null from a JSON object.

Only the top-level object is trimmed unless --recursive is set, in which
case nested objects are trimmed too. Arrays are left untouched.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrim(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "trim nested objects too")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the output")

	return cmd
}

func runTrim(opts *TrimOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	v, err := readJSON(cmd, formatter, args)
	if err != nil {
		return err
	}

	obj, ok := v.(*value.Object)
	if !ok {
		return fail(formatter, ExitFailure, ErrCodeNotObject, "trim input must be a JSON object", nil)
	}

	before := obj.Len()
	if opts.Recursive {
		value.TrimNullsRecursive(obj)
	} else {
		value.TrimNulls(obj)
	}
	formatter.VerboseLog("Removed %d top-level field(s)", before-obj.Len())

	out, err := marshalValue(obj, opts.Pretty)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "encoding output", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(json.RawMessage(out))
	}
	return writeFile(cmd, "", append(out, '\n'))
}

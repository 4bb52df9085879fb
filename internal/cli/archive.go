package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/jpack/internal/archive"
)

// ArchiveOptions holds flags shared by the archive subcommands.
type ArchiveOptions struct {
	*RootOptions
	Database string
}

// ArchivePutOptions holds flags for archive put.
type ArchivePutOptions struct {
	*ArchiveOptions
	Codec CodecFlags
}

// ArchiveGetResult is the JSON payload reported by archive get.
type ArchiveGetResult struct {
	Document archive.Document `json:"document"`
	Value    json.RawMessage  `json:"value"`
}

// NewArchiveCommand creates the archive command and its subcommands.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store compressed documents in a SQLite database",
		Long: `Store, list, fetch and delete compressed documents.

Documents are kept in their compressed form. Putting a document under
the same name with the same encoding (key order and options included)
returns the existing document; any other change is stored as a new one.

Example:
  jpack archive put --db ./docs.db orders orders.json
  jpack archive list --db ./docs.db
  jpack archive get --db ./docs.db 01936f4e-...`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newArchivePutCommand(opts))
	cmd.AddCommand(newArchiveGetCommand(opts))
	cmd.AddCommand(newArchiveListCommand(opts))
	cmd.AddCommand(newArchiveRmCommand(opts))

	return cmd
}

func newArchivePutCommand(parent *ArchiveOptions) *cobra.Command {
	opts := &ArchivePutOptions{ArchiveOptions: parent}

	cmd := &cobra.Command{
		Use:           "put <name> [file]",
		Short:         "Compress a JSON document and store it",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchivePut(opts, args, cmd)
		},
	}

	addCodecFlags(cmd, &opts.Codec)

	return cmd
}

func newArchiveGetCommand(opts *ArchiveOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:           "get <id>",
		Short:         "Print a stored document as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveGet(opts, args[0], pretty, cmd)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the restored JSON")

	return cmd
}

func newArchiveListCommand(opts *ArchiveOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored documents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveList(opts, cmd)
		},
	}
}

func newArchiveRmCommand(opts *ArchiveOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a stored document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveRm(opts, args[0], cmd)
		},
	}
}

func openArchive(opts *ArchiveOptions, formatter *OutputFormatter) (*archive.Archive, error) {
	if opts.Database == "" {
		return nil, fail(formatter, ExitCommandError, ErrCodeArchive, "--db is required", nil)
	}

	formatter.VerboseLog("Opening archive %s", opts.Database)
	a, err := archive.Open(opts.Database)
	if err != nil {
		return nil, fail(formatter, ExitCommandError, ErrCodeArchive, "opening archive", err)
	}
	return a, nil
}

// archiveFailure maps archive errors to CLI errors. Codec errors keep
// their own code.
func archiveFailure(f *OutputFormatter, message string, err error) error {
	if errors.Is(err, archive.ErrNotFound) {
		return fail(f, ExitFailure, ErrCodeNotFound, message, err)
	}
	return codecFailure(f, message, err)
}

func runArchivePut(opts *ArchivePutOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	codecOpts, err := resolveOptions(cmd, opts.RootOptions, &opts.Codec)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "loading config", err)
	}

	v, err := readJSON(cmd, formatter, args[1:])
	if err != nil {
		return err
	}

	a, err := openArchive(opts.ArchiveOptions, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.Put(cmd.Context(), args[0], v, codecOpts)
	if err != nil {
		return archiveFailure(formatter, "storing document", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(doc)
	}
	fmt.Fprintf(formatter.Writer, "✓ Stored %s as %s (%d value(s), %d bytes packed)\n",
		doc.Name, doc.ID, doc.ValueCount, doc.PackedSize)
	return nil
}

func runArchiveGet(opts *ArchiveOptions, id string, pretty bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	doc, err := a.Get(ctx, id)
	if err != nil {
		return archiveFailure(formatter, fmt.Sprintf("getting document %s", id), err)
	}
	v, err := a.GetValue(ctx, id)
	if err != nil {
		return archiveFailure(formatter, fmt.Sprintf("decompressing document %s", id), err)
	}

	out, err := marshalValue(v, pretty)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "encoding output", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ArchiveGetResult{Document: doc, Value: out})
	}
	return writeFile(cmd, "", append(out, '\n'))
}

func runArchiveList(opts *ArchiveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	docs, err := a.List(cmd.Context())
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeArchive, "listing documents", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(formatter.Writer, "No documents")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVALUES\tPACKED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.ID, d.Name, d.ValueCount, d.PackedSize)
	}
	return tw.Flush()
}

func runArchiveRm(opts *ArchiveOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Delete(cmd.Context(), id); err != nil {
		return archiveFailure(formatter, fmt.Sprintf("deleting document %s", id), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"deleted": id})
	}
	fmt.Fprintf(formatter.Writer, "✓ Deleted %s\n", id)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/BartekS5/twinren/internal/config"
)

type RenameOptions struct {
	MappingFile string
	InputDir    string
	OutputDir   string
	Exts        string
	DryRun      bool
	Verbose     bool
	LogFile     string
}

func NewRenameCmd() *cobra.Command {
	opts := &RenameOptions{}

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Copy images to the output directory under their twin codes",
		Example: `  twinren rename -m codes.xlsx -i ./photos -o ./renamed
  twinren rename -m codes.csv -i ./photos -o ./renamed --exts png,webp --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runRename(c, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.MappingFile, "mapping", "m", "", "Mapping file (.csv, .tsv, .txt or .xlsx with CodeX/CodeY columns)")
	flags.StringVarP(&opts.InputDir, "input-dir", "i", "", "Directory containing the images to rename")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "", "Destination directory for the renamed images")
	flags.StringVar(&opts.Exts, "exts", config.DefaultExts, "Allowed file extensions (comma separated)")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Report what would happen without writing anything")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug output")
	flags.StringVar(&opts.LogFile, "log-file", "", "Also append log lines to this file")

	// --excel is the historical name of --mapping.
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "excel" {
			name = "mapping"
		}
		return pflag.NormalizedName(name)
	})

	cmd.MarkFlagRequired("mapping")
	cmd.MarkFlagRequired("input-dir")
	cmd.MarkFlagRequired("output-dir")

	return cmd
}

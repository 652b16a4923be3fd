package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/BartekS5/twinren/internal/mapping"
	"github.com/BartekS5/twinren/internal/rename"
	"github.com/BartekS5/twinren/pkg/logger"
	"github.com/BartekS5/twinren/pkg/utils"
)

var (
	errNothingProcessed = errors.New("no file was processed")
)

func runRename(cmd *cobra.Command, opts *RenameOptions) error {
	out := cmd.OutOrStdout()

	level := logger.INFO
	if opts.Verbose {
		level = logger.DEBUG
	}
	log, err := logger.Open(out, opts.LogFile, level)
	if err != nil {
		return err
	}
	defer log.Close()
	log.Debugf("Verbose mode enabled")

	if _, err := os.Stat(opts.MappingFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("mapping file not found: %s: %w", opts.MappingFile, err)
		}
		return fmt.Errorf("cannot access mapping file: %w", err)
	}
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("input directory not found: %s: %w", opts.InputDir, err)
		}
		return fmt.Errorf("cannot access input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", opts.InputDir)
	}

	exts := utils.ParseExtList(opts.Exts)
	if len(exts) == 0 {
		return fmt.Errorf("no valid extension in --exts %q", opts.Exts)
	}

	if opts.DryRun {
		fmt.Fprintln(out, "DRY-RUN mode: no file will be written")
	}

	fmt.Fprintf(out, "Building mapping from %s...\n", opts.MappingFile)
	m, report, err := mapping.BuildFromFile(opts.MappingFile, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Mapping built: %d code pairs\n", report.Accepted)
	if len(report.Duplicates) > 0 {
		fmt.Fprintf(out, "Duplicate rows ignored: %d\n", len(report.Duplicates))
	}

	fmt.Fprintln(out, "Processing images...")
	res, err := rename.NewEngine(log).Process(m, opts.InputDir, opts.OutputDir, exts, opts.DryRun)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nFINAL REPORT:")
	fmt.Fprintf(out, "  Files processed: %d\n", res.Processed)
	fmt.Fprintf(out, "  Files skipped: %d\n", res.Skipped)
	fmt.Fprintf(out, "  Errors: %d\n", res.Errors)

	switch {
	case opts.DryRun:
		fmt.Fprintln(out, "\nRun again without --dry-run to apply the changes")
	case res.Processed > 0:
		fmt.Fprintf(out, "\nDone. Files saved in: %s\n", opts.OutputDir)
	}

	if res.Errors > 0 {
		return fmt.Errorf("%d file(s) could not be renamed", res.Errors)
	}
	if res.Processed == 0 {
		return errNothingProcessed
	}
	return nil
}

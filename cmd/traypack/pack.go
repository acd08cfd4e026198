package main

import (
	"fmt"
	"io"
	"path/filepath"

	"traypack/internal/archive"
	"traypack/internal/assemble"
	"traypack/internal/config"
	"traypack/internal/fsx"
	"traypack/internal/locate"
	"traypack/internal/log"
	"traypack/internal/report"
	"traypack/internal/tray"
	"traypack/pkg/types"

	"github.com/spf13/cobra"
)

// packFlags holds command-line overrides for the loaded config.
type packFlags struct {
	output     string
	dryRun     bool
	verify     bool
	keepOutput bool
	archive    bool
	include    []string
	types      []string
	report     string
	yes        bool
}

func (f *packFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output folder (default \"output\")")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show what would be copied without writing anything")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Verify every copy with an xxh3 checksum")
	cmd.Flags().BoolVar(&f.keepOutput, "keep-output", false, "Reuse an existing output folder instead of recreating it")
	cmd.Flags().BoolVar(&f.archive, "archive", false, "Zip the output folder when done")
	cmd.Flags().StringSliceVarP(&f.include, "include", "i", nil, "Only pack items whose name matches one of these globs")
	cmd.Flags().StringSliceVarP(&f.types, "type", "t", nil, "Only pack these item types (households, plots, rooms)")
	cmd.Flags().StringVar(&f.report, "report", "", "Write a JSON report to this file")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Don't ask before clearing an output folder that holds other files")
}

// apply copies flags the user actually set onto cfg.
func (f *packFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.Directories.Tray = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Directories.Output = f.output
	}
	if flags.Changed("dry-run") {
		cfg.Settings.DryRun = f.dryRun
	}
	if flags.Changed("verify") {
		cfg.Settings.Verify = f.verify
	}
	if flags.Changed("keep-output") {
		cfg.Settings.CleanOutput = !f.keepOutput
	}
	if flags.Changed("archive") {
		cfg.Settings.Archive = f.archive
	}
	if flags.Changed("include") {
		cfg.Filter.Include = f.include
	}
	if flags.Changed("type") {
		cfg.Filter.Types = f.types
	}
	if flags.Changed("report") {
		cfg.Report.Path = f.report
	}
	return cfg.Validate()
}

func packCmd() *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "pack [tray-folder]",
		Short: "Copy every gallery item into its own folder",
		Long: `Classify the files of the tray folder and copy each household, lot and room
together with its companion files into <output>/<type>/<name> (0x<id>)/.

The tray folder defaults to Documents/Electronic Arts/The Sims 4/Tray.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}
			p := &packer{cfg: cfg, in: cmd.InOrStdin(), out: cmd.OutOrStdout(), assumeYes: flags.yes}
			result, err := p.run()
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// packer runs one complete pack: locate, classify, prepare, assemble,
// then archive and report.
type packer struct {
	cfg       *config.Config
	in        io.Reader
	out       io.Writer
	assumeYes bool
}

func (p *packer) run() (*types.PackResult, error) {
	trayDir, err := locate.TrayDir(p.cfg.Directories.Tray)
	if err != nil {
		return nil, err
	}
	output := p.cfg.Directories.Output
	if err := checkOverlap(trayDir, output); err != nil {
		return nil, err
	}

	if !p.cfg.Settings.DryRun {
		if err := p.prepareOutput(output); err != nil {
			return nil, err
		}
	}

	content, err := tray.NewClassifier(trayDir).Classify()
	if err != nil {
		return nil, err
	}

	engine, err := assemble.NewWithConfig(p.cfg)
	if err != nil {
		return nil, err
	}
	result := engine.Pack(trayDir, content)

	if p.cfg.Settings.Archive && !p.cfg.Settings.DryRun {
		zipPath := filepath.Clean(output) + ".zip"
		n, err := archive.ZipDir(output, zipPath)
		if err != nil {
			log.LogWithFields(log.F("archive", zipPath)).ErrorWithStack(err, "Couldn't create archive")
		} else {
			log.Infof("Archived %d files into %s", n, zipPath)
			result.Archive = zipPath
		}
	}

	if p.cfg.Report.Path != "" {
		if err := report.Write(p.cfg.Report.Path, result); err != nil {
			log.LogWithFields(log.F("report", p.cfg.Report.Path)).ErrorWithStack(err, "Couldn't write report")
		}
	}
	return result, nil
}

func (p *packer) prepareOutput(output string) error {
	err := fsx.PrepareOutput(output, p.cfg.Settings.CleanOutput, tray.Folders())
	if fsx.IsForeignOutput(err) {
		fmt.Fprintln(p.out, warningText(err.Error()))
		if !p.assumeYes && !confirm(p.in, p.out, "Delete everything in "+output+" and continue?") {
			return fmt.Errorf("aborted: output folder %s was left untouched (use --keep-output to pack into it)", output)
		}
		err = fsx.Recreate(output)
	}
	if err == nil || !fsx.IsStaleOutput(err) {
		return err
	}

	fmt.Fprintln(p.out, warningText(err.Error()))
	if p.assumeYes || confirm(p.in, p.out, "Process can continue but it may fail. Do you want to continue?") {
		return nil
	}
	return fmt.Errorf("aborted: output folder %s was not cleared", output)
}

// checkOverlap refuses an output folder that is the tray folder or contains
// it, since preparing the output may delete it.
func checkOverlap(trayDir, output string) error {
	absTray, err := filepath.Abs(trayDir)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absOut, absTray)
	switch {
	case err != nil:
		return nil
	case rel == ".":
		return fmt.Errorf("output folder %s is the tray folder", output)
	case filepath.IsLocal(rel):
		return fmt.Errorf("output folder %s must not contain the tray folder %s", output, trayDir)
	}
	return nil
}

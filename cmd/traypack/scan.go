package main

import (
	"fmt"
	"io"

	"traypack/internal/assemble"
	serr "traypack/internal/errors"
	"traypack/internal/locate"
	"traypack/internal/tray"

	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "scan [tray-folder]",
		Short: "List the gallery items found in the tray folder",
		Long:  `Classify the tray folder and print every gallery item with its companion files, without copying anything.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Directories.Tray
			if len(args) > 0 {
				dir = args[0]
			}
			trayDir, err := locate.TrayDir(dir)
			if err != nil {
				return err
			}
			content, err := tray.NewClassifier(trayDir).Classify()
			if err != nil {
				return err
			}
			printScan(cmd.OutOrStdout(), content, verbose)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also list files that were skipped")
	return cmd
}

func printScan(w io.Writer, content *tray.Content, verbose bool) {
	for _, p := range assemble.BuildPlans(content) {
		var aux, seq int
		for _, c := range p.Extras {
			if c.Role == assemble.RoleSequel {
				seq++
			} else {
				aux++
			}
		}
		fmt.Fprintln(w, infoText(fmt.Sprintf("%-10s %s (%d companion, %d sequel files)",
			p.TypeFolder, p.ItemFolder, aux, seq)))
	}

	if verbose {
		for _, d := range content.Diagnostics {
			fmt.Fprintln(w, warningText(fmt.Sprintf("%s: %s", d.Path, serr.KindOf(d.Err))))
		}
	}

	fmt.Fprintf(w, "%d gallery items, %d companion files, %d sequel files, %d skipped\n",
		len(content.Items), len(content.Auxiliary), len(content.Sequels), len(content.Diagnostics))
}

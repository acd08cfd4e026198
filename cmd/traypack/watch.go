package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"traypack/internal/locate"
	"traypack/internal/watch"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "watch [tray-folder]",
		Short: "Repack whenever the tray folder changes",
		Long: `Run a pack, then keep watching the tray folder and pack again once it has
been quiet for the configured debounce period.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}
			trayDir, err := locate.TrayDir(cfg.Directories.Tray)
			if err != nil {
				return err
			}
			cfg.Directories.Tray = trayDir

			p := &packer{cfg: cfg, in: cmd.InOrStdin(), out: cmd.OutOrStdout(), assumeYes: flags.yes}
			pack := func() error {
				result, err := p.run()
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), result)
				// The output folder is ours from here on; repacks don't stop to ask.
				p.assumeYes = true
				return nil
			}
			if err := pack(); err != nil {
				return err
			}

			w, err := watch.New(trayDir, time.Duration(cfg.WatchMode.Debounce)*time.Second)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return w.Run(ctx, pack)
		},
	}
	flags.register(cmd)
	return cmd
}

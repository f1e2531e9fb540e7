package main

import (
	"github.com/spf13/cobra"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process schedule files dropped into the inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := watch.New(a.cfg, a.pipe)
			if !once {
				return w.Run(cmd.Context())
			}

			res, err := w.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			appLog.Info("inbox pass completed", "processed", res.Processed, "failed", res.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Process the inbox once and exit")
	return cmd
}

package cmd

import (
	"context"

	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/monitor"
	"github.com/spf13/cobra"
)

var defaultWatched = []string{"media-title", "pause", "time-pos", "duration", "volume"}

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:               "watch [property...]",
	Short:             "Open a live view of player properties and events",
	ValidArgsFunction: completeProperties(-1),
	Run: func(cmd *cobra.Command, args []string) {
		properties := args
		if len(properties) == 0 {
			properties = defaultWatched
		}

		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			return monitor.Run(ctx, s, properties)
		}))
	},
}

package cmd

import (
	"context"
	"os"

	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(waitCmd)
	observeCmd.SetOut(os.Stdout)
	waitCmd.SetOut(os.Stdout)
}

// untilClosed blocks until ctx is cancelled or the player goes away.
func untilClosed(ctx context.Context, s *ipc.Session) error {
	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return ipc.ErrConnectionClosed
	}
}

var observeCmd = &cobra.Command{
	Use:               "observe <property...>",
	Short:             "Print property changes until interrupted",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeProperties(-1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			for _, name := range args {
				_, err := s.ObserveProperty(ctx, name, func(name string, value ipc.Value) {
					cmd.Printf("%s %s %s\n", icon.Get(icon.Property), style.Bold(name), value)
				})
				if err != nil {
					return err
				}
			}
			return untilClosed(ctx, s)
		}))
	},
}

var waitCmd = &cobra.Command{
	Use:   "wait <property>",
	Short: "Wait for a property to change and print its new value",
	Long: `Wait for a property to change and print its new value.
The player reports the current value on observation, so the first notification is skipped.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProperties(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			v, err := s.WaitForProperty(ctx, args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, v, false)
		}))
	},
}

package cmd

import (
	"context"
	"os"

	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(bindCmd)
	bindCmd.SetOut(os.Stdout)
}

var bindCmd = &cobra.Command{
	Use:   "bind <key> <command> [args...]",
	Short: "Run a player command whenever a key is pressed in the player window",
	Long: `Run a player command whenever a key is pressed in the player window.
The binding lives as long as this process stays connected.`,
	Example: "  mpvipc bind F1 cycle pause\n  mpvipc bind ctrl+s screenshot",
	Args:    cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		keyName, name, rest := args[0], args[1], parseArgs(args[2:])

		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			binding, err := s.OnKey(ctx, keyName, func() {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Key), style.Bold(keyName), name)
				if _, err := s.Command(ctx, name, rest...); err != nil {
					log.Warnf("bound command %s: %v", name, err)
					cmd.Printf("%s %v\n", icon.Get(icon.Fail), err)
				}
			})
			if err != nil {
				return err
			}

			log.WithField("binding", binding).Infof("bound %s to %s", keyName, name)
			cmd.Printf("%s %s bound, waiting for key presses\n", icon.Get(icon.Success), style.Bold(keyName))
			return untilClosed(ctx, s)
		}))
	},
}

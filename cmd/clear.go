package cmd

import (
	"fmt"

	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/player"
	"github.com/anisan-cli/mpvipc/util"
	"github.com/anisan-cli/mpvipc/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines an artifact eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() (string, error)
}

var clearTargets = []clearTarget{
	{"logs directory", "logs", mo.Some("l"), func() (string, error) {
		return "", filesystem.API().RemoveAll(where.Logs())
	}},
	{"cache directory", "cache", mo.Some("c"), func() (string, error) {
		return "", filesystem.API().RemoveAll(where.Cache())
	}},
	{"stale sockets", "sockets", mo.Some("r"), func() (string, error) {
		removed, err := player.RemoveStale("")
		return util.Quantify(len(removed), "socket", "sockets") + " removed", err
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes log files, the version cache and abandoned player sockets.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear logs, cached player versions and stale player sockets",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			detail, err := target.clear()
			erase()
			handleErr(err)

			if detail != "" {
				fmt.Printf("%s %s cleared (%s)\n", icon.Get(icon.Success), util.Capitalize(target.name), detail)
			} else {
				fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
			}
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}

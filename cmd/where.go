package cmd

import (
	"os"

	"github.com/anisan-cli/mpvipc/color"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a directory the client reads or writes, selectable with a flag.
type location struct {
	title string
	flag  string
	short string
	path  func() string
}

var locations = []location{
	{"Config", "config", "c", where.Config},
	{"Logs", "logs", "l", where.Logs},
	{"Version cache", "cache", "a", where.Cache},
	{"Player sockets", "sockets", "r", where.Runtime},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, loc := range locations {
		whereCmd.Flags().BoolP(loc.flag, loc.short, false, loc.title+" path")
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(loc location, _ int) string {
		return loc.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where config, logs, the version cache and player sockets live",
	Run: func(cmd *cobra.Command, args []string) {
		selected, ok := lo.Find(locations, func(loc location) bool {
			return lo.Must(cmd.Flags().GetBool(loc.flag))
		})
		if ok {
			cmd.Println(selected.path())
			return
		}

		title := style.New().Bold(true).Foreground(color.HiPurple).Render
		flag := style.Fg(color.Yellow)

		for i, loc := range locations {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", title(loc.title), flag("--"+loc.flag))
			cmd.Println(loc.path())
		}
	},
}

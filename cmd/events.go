package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anisan-cli/mpvipc/color"
	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/util"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const logIndent = 4

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.SetOut(os.Stdout)
}

// formatEvent renders an event on one line, or a wrapped block for player log lines.
func formatEvent(ev ipc.Event, width int) string {
	header := fmt.Sprintf("%s %s", icon.Get(icon.Event), style.Bold(ev.Name))

	if ev.Name == "log-message" {
		level, _ := ev.Get("level").AsString()
		prefix, _ := ev.Get("prefix").AsString()
		text, _ := ev.Get("text").AsString()

		body := wordwrap.String(strings.TrimRight(text, "\n"), util.Clamp(width-logIndent, 20, 200))
		return fmt.Sprintf("%s %s %s\n%s",
			header,
			style.Fg(color.Yellow)(level),
			style.Faint("["+prefix+"]"),
			indent.String(body, logIndent),
		)
	}

	fields := lo.Filter(lo.Keys(ev.Message), func(k string, _ int) bool {
		return k != "event"
	})
	if len(fields) == 0 {
		return header
	}
	sort.Strings(fields)

	parts := lo.Map(fields, func(k string, _ int) string {
		return style.Faint(k+"=") + ev.Get(k).String()
	})
	return header + " " + strings.Join(parts, " ")
}

var eventsCmd = &cobra.Command{
	Use:   "events [name...]",
	Short: "Print player events until interrupted",
	Long: `Print player events until interrupted.
Without names every event is printed. Player log lines appear when player.log_level is set.`,
	Example: "  mpvipc events\n  mpvipc events start-file end-file",
	Run: func(cmd *cobra.Command, args []string) {
		names := args
		if len(names) == 0 {
			names = []string{ipc.AnyEvent}
		}

		width := util.TerminalWidth(80)
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			printer := ipc.ListenerFunc(func(ev ipc.Event) error {
				cmd.Println(formatEvent(ev, width))
				return nil
			})
			for _, name := range lo.Uniq(names) {
				s.OnEvent(name, printer)
			}
			return untilClosed(ctx, s)
		}))
	},
}

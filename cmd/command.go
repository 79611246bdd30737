package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)

	for _, c := range []*cobra.Command{commandCmd, getCmd, setCmd} {
		c.SetOut(os.Stdout)
	}

	for _, c := range []*cobra.Command{commandCmd, getCmd} {
		c.Flags().BoolP("json", "j", false, "Print the result as JSON")
	}
}

// printValue writes v in plain or JSON form.
func printValue(cmd *cobra.Command, v ipc.Value, asJSON bool) error {
	if !asJSON {
		switch raw := v.Raw().(type) {
		case nil:
		case string:
			cmd.Println(raw)
		default:
			cmd.Println(v.String())
		}
		return nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

var commandCmd = &cobra.Command{
	Use:   "command <name> [args...]",
	Short: "Run a player command and print its result",
	Long: `Run a player command and print its result.
Arguments that parse as JSON keep their type, anything else is sent as a string.`,
	Example: "  mpvipc command seek 10 relative\n  mpvipc command loadfile video.mkv append-play",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON := lo.Must(cmd.Flags().GetBool("json"))
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			v, err := s.Command(ctx, args[0], parseArgs(args[1:])...)
			if err != nil {
				return err
			}
			return printValue(cmd, v, asJSON)
		}))
	},
}

var getCmd = &cobra.Command{
	Use:               "get <property>",
	Short:             "Print the value of a player property",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProperties(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON := lo.Must(cmd.Flags().GetBool("json"))
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			v, err := s.GetProperty(ctx, args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, v, asJSON)
		}))
	},
}

var setCmd = &cobra.Command{
	Use:               "set <property> <value>",
	Short:             "Change the value of a player property",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeProperties(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(withSession(func(ctx context.Context, s *ipc.Session) error {
			value := parseArg(args[1])
			if err := s.SetProperty(ctx, args[0], value); err != nil {
				return err
			}
			cmd.Printf("%s %s = %v\n", icon.Get(icon.Success), args[0], value)
			return nil
		}))
	},
}

package cmd

import (
	"os"

	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/player"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(launchCmd)
	launchCmd.SetOut(os.Stdout)
	launchCmd.Flags().Bool("no-check", false, "Skip the player version check")
	launchCmd.Flags().StringArrayP("option", "o", nil, "Extra player option as key=value, may be repeated")
}

var launchCmd = &cobra.Command{
	Use:   "launch [file...]",
	Short: "Start a player with an IPC socket and keep it under supervision",
	Long: `Start a player with an IPC socket and keep it under supervision.
The player quits when this process is interrupted, and this process exits when the player does.`,
	Example: "  mpvipc launch video.mkv\n  mpvipc launch -o volume=30 https://example.com/stream.m3u8",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible(cmd.Context())
		defer cancel()

		if !lo.Must(cmd.Flags().GetBool("no-check")) {
			_, err := checkPlayer(ctx)
			handleErr(err)
		}

		popts := playerOptions(args)
		popts.Args = lo.Assign(popts.Args, player.ParseArgs(lo.Must(cmd.Flags().GetStringArray("option"))))

		s, err := ipc.Launch(ctx, popts, ipc.OptionsFromConfig()...)
		handleErr(err)
		defer s.Terminate()

		if v, err := s.GetProperty(ctx, "mpv-version"); err == nil {
			log.Infof("launched %s", v)
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Socket), style.Bold(s.Address()))

		select {
		case <-ctx.Done():
		case <-s.Done():
		}
	},
}

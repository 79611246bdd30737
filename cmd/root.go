// Package cmd implements the command-line interface for mpvipc.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/mpvipc/color"
	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("socket", "S", "", "IPC socket or named pipe of a running player")
	lo.Must0(viper.BindPFlag(key.IPCSocket, rootCmd.PersistentFlags().Lookup("socket")))

	rootCmd.PersistentFlags().IntP("timeout", "t", 0, "Seconds to wait for each command response")
	lo.Must0(viper.BindPFlag(key.IPCTimeout, rootCmd.PersistentFlags().Lookup("timeout")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))
}

// rootCmd defines the entry point for the mpvipc application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Control a running mpv player over its JSON IPC socket",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Control a running mpv player over its JSON IPC socket"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		if log.Enabled() {
			_, _ = fmt.Fprintf(os.Stderr, "See the logs in %s\n", where.Logs())
		}
		os.Exit(1)
	}
}

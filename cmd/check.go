package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that a supported player executable is installed",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := checkPlayer(cmd.Context())
		if err != nil {
			handleErr(err)
		}

		cmd.Printf("%s %s %s\n", icon.Get(icon.Success), viper.GetString(key.PlayerExecutable), style.Bold(v))
	},
}

// checkPlayer validates the configured executable and returns its version.
// A missing executable prints installation hints before failing.
func checkPlayer(ctx context.Context) (string, error) {
	executable := viper.GetString(key.PlayerExecutable)
	if _, err := exec.LookPath(executable); err != nil {
		printMissingDependencyError(executable)
		return "", fmt.Errorf("%s not found in PATH", executable)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	v, err := version.Player(ctx, executable)
	if err != nil {
		return "", err
	}

	ok, err := version.Supported(v)
	if err != nil {
		return "", err
	}

	if !ok {
		return v, fmt.Errorf("%s %s is older than the supported minimum %s", executable, v, constant.MinPlayerVersion)
	}

	return v, nil
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing player", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The player executable '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

package cmd

import (
	"context"
	"os"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/anisan-cli/mpvipc/color"
	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"red":     style.Fg(color.Red),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Player" }}          {{ if .Player }}{{ bold .Player }}{{ else }}{{ red "not found" }}{{ end }} {{ faint (printf "(minimum %s)" .MinPlayer) }}
`))

// versionCmd displays application version, build metadata and the installed player version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		playerVersion, _ := version.Player(ctx, viper.GetString(key.PlayerExecutable))

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App, Version, OS, Arch     string
			BuiltAt, BuiltBy, Revision string
			Player, MinPlayer          string
		}{
			App:       constant.App,
			Version:   constant.Version,
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			BuiltAt:   strings.TrimSpace(constant.BuiltAt),
			BuiltBy:   constant.BuiltBy,
			Revision:  constant.Revision,
			Player:    playerVersion,
			MinPlayer: constant.MinPlayerVersion,
		}))
	},
}

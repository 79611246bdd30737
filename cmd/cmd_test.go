package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestParseArg(t *testing.T) {
	Convey("Given command-line words", t, func() {
		Convey("JSON scalars keep their type", func() {
			So(parseArg("50"), ShouldEqual, float64(50))
			So(parseArg("true"), ShouldEqual, true)
			So(parseArg("null"), ShouldBeNil)
			So(parseArg(`"quoted"`), ShouldEqual, "quoted")
		})

		Convey("JSON containers are decoded", func() {
			So(parseArg(`["a",1]`), ShouldResemble, []any{"a", float64(1)})
		})

		Convey("Anything else is a string", func() {
			So(parseArg("yes"), ShouldEqual, "yes")
			So(parseArg("video.mkv"), ShouldEqual, "video.mkv")
			So(parseArgs([]string{"seek", "10", "relative"}), ShouldResemble, []any{"seek", float64(10), "relative"})
		})
	})
}

func TestMatchProperties(t *testing.T) {
	Convey("Given a partial property name", t, func() {
		Convey("An empty input offers everything", func() {
			So(matchProperties(""), ShouldResemble, wellKnownProperties)
		})

		Convey("A fuzzy input ranks the closest first", func() {
			matches := matchProperties("vol")
			So(matches, ShouldNotBeEmpty)
			So(matches[0], ShouldEqual, "volume")
			So(matches, ShouldContain, "volume-max")
			So(matches, ShouldNotContain, "pause")
		})

		Convey("An unmatched input offers nothing", func() {
			So(matchProperties("zzz"), ShouldBeEmpty)
		})
	})
}

func TestFormatEvent(t *testing.T) {
	Convey("Given player events", t, func() {
		Convey("A plain event lists its fields sorted", func() {
			out := formatEvent(ipc.Event{Name: "end-file", Message: ipc.Message{
				"event":  "end-file",
				"reason": "eof",
				"id":     float64(3),
			}}, 80)
			So(out, ShouldContainSubstring, "end-file")
			So(out, ShouldContainSubstring, `"eof"`)
			So(out, ShouldNotContainSubstring, "event=")
		})

		Convey("An event without fields is just its name", func() {
			out := formatEvent(ipc.Event{Name: "idle", Message: ipc.Message{"event": "idle"}}, 80)
			So(out, ShouldEndWith, "idle")
		})

		Convey("A log line is wrapped and indented", func() {
			out := formatEvent(ipc.Event{Name: "log-message", Message: ipc.Message{
				"event":  "log-message",
				"level":  "warn",
				"prefix": "ao",
				"text":   "audio device underrun detected while the output was still starting up\n",
			}}, 40)
			So(out, ShouldContainSubstring, "warn")
			So(out, ShouldContainSubstring, "[ao]")
			So(out, ShouldContainSubstring, "\n    audio")
		})
	})
}

func TestConfiguredSocket(t *testing.T) {
	Convey("Given the socket setting", t, func() {
		Reset(func() { viper.Set(key.IPCSocket, "") })

		Convey("When it is unset there is no socket", func() {
			viper.Set(key.IPCSocket, "")
			So(configuredSocket().IsAbsent(), ShouldBeTrue)

			_, err := connect(context.Background())
			So(err, ShouldEqual, errNoSocket)
		})

		Convey("When it is set it is used", func() {
			viper.Set(key.IPCSocket, "/tmp/mpv.sock")
			So(configuredSocket().MustGet(), ShouldEqual, "/tmp/mpv.sock")
		})
	})
}

func TestWhere(t *testing.T) {
	Convey("Given the where command", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		t.Setenv(where.EnvConfigPath, "/config")

		var out bytes.Buffer
		whereCmd.SetOut(&out)
		defer whereCmd.SetOut(os.Stdout)

		Convey("A flag prints only that path", func() {
			So(whereCmd.Flags().Set("cache", "true"), ShouldBeNil)
			defer func() { _ = whereCmd.Flags().Set("cache", "false") }()

			whereCmd.Run(whereCmd, nil)
			So(out.String(), ShouldEqual, where.Cache()+"\n")
		})

		Convey("No flag lists every location", func() {
			whereCmd.Run(whereCmd, nil)
			So(out.String(), ShouldContainSubstring, "/config/logs")
			So(out.String(), ShouldContainSubstring, where.Cache())
			So(out.String(), ShouldContainSubstring, where.Runtime())
		})
	})
}

func TestEnv(t *testing.T) {
	Convey("Given the env command", t, func() {
		t.Setenv("MPVIPC_IPC_SOCKET", "/tmp/mpv.sock")

		var out bytes.Buffer
		envCmd.SetOut(&out)
		defer envCmd.SetOut(os.Stdout)

		Convey("--set-only lists the variables that are set", func() {
			So(envCmd.Flags().Set("set-only", "true"), ShouldBeNil)
			defer func() { _ = envCmd.Flags().Set("set-only", "false") }()

			envCmd.Run(envCmd, nil)
			So(out.String(), ShouldContainSubstring, "MPVIPC_IPC_SOCKET")
			So(out.String(), ShouldContainSubstring, "/tmp/mpv.sock")
			So(out.String(), ShouldNotContainSubstring, "unset")
		})

		Convey("--unset-only hides the variables that are set", func() {
			So(envCmd.Flags().Set("unset-only", "true"), ShouldBeNil)
			defer func() { _ = envCmd.Flags().Set("unset-only", "false") }()

			envCmd.Run(envCmd, nil)
			So(out.String(), ShouldNotContainSubstring, "MPVIPC_IPC_SOCKET")
			So(out.String(), ShouldContainSubstring, "MPVIPC_PLAYER_EXECUTABLE")
		})
	})
}

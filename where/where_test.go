package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/custom/mpvipc")
			So(Config(), ShouldEqual, "/custom/mpvipc")
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			Convey("Should live under the user cache dir", func() {
				base, err := os.UserCacheDir()
				if err != nil {
					base = filepath.Join(Config(), "cache")
				} else {
					base = filepath.Join(base, "mpvipc")
				}
				So(Cache(), ShouldEqual, base)
				So(lo.Must(filesystem.API().IsDir(Cache())), ShouldBeTrue)
			})
		})

		Convey("Runtime()", func() {
			Convey("Should use XDG_RUNTIME_DIR when set", func() {
				t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
				So(Runtime(), ShouldEqual, filepath.Join("/run/user/1000", "mpvipc"))
			})

			Convey("Should fall back to the temp dir", func() {
				t.Setenv("XDG_RUNTIME_DIR", "")
				So(Runtime(), ShouldEqual, filepath.Join(os.TempDir(), "mpvipc"))
				So(lo.Must(filesystem.API().IsDir(Runtime())), ShouldBeTrue)
			})
		})
	})
}

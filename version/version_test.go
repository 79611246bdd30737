package version

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anisan-cli/mpvipc/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		Convey("When the first is newer", func() {
			c, err := Compare("0.36.0", "0.33.1")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)
		})

		Convey("When the versions are equal with a v prefix", func() {
			c, err := Compare("v1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("When the first is older by patch", func() {
			c, err := Compare("0.33.0", "0.33.1")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)
		})

		Convey("When the patch is missing it counts as zero", func() {
			c, err := Compare("0.34", "0.34.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("When a git describe suffix is present it is ignored", func() {
			c, err := Compare("0.38.0-123-gdeadbee", "0.38.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("When a version is malformed", func() {
			_, err := Compare("latest", "0.33.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("0.33.0", "1.2.3.4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParsePlayer(t *testing.T) {
	Convey("Given mpv --version output", t, func() {
		Convey("When it is a release build", func() {
			v, err := ParsePlayer("mpv 0.35.1 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on ...")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.35.1")
		})

		Convey("When it carries a v prefix and a git suffix", func() {
			v, err := ParsePlayer("mpv v0.38.0-123-gdeadbee Copyright © 2000-2024\n")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.38.0")
		})

		Convey("When the patch component is missing", func() {
			v, err := ParsePlayer("mpv 0.34 Copyright")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.34.0")
		})

		Convey("When the output is not from mpv", func() {
			_, err := ParsePlayer("vlc 3.0.18\n")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "vlc 3.0.18")
		})
	})
}

func TestSupported(t *testing.T) {
	Convey("Given the minimum player version", t, func() {
		ok, err := Supported("0.33.0")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)

		ok, err = Supported("0.32.9")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)

		ok, err = Supported("1.0.0")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
	})
}

func TestCachedPlayer(t *testing.T) {
	Convey("Given a player binary on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		const path = "/usr/bin/mpv"
		So(filesystem.API().WriteFile(path, []byte("binary"), 0o755), ShouldBeNil)

		var runs int
		output := "mpv 0.36.0 Copyright\n"
		run := func(_ context.Context, p string) (string, error) {
			runs++
			So(p, ShouldEqual, path)
			return output, nil
		}
		ctx := context.Background()

		v, err := cachedPlayer(ctx, path, run)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "0.36.0")
		So(runs, ShouldEqual, 1)

		Convey("An unchanged binary is answered from the cache", func() {
			v, err := cachedPlayer(ctx, path, run)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.36.0")
			So(runs, ShouldEqual, 1)
		})

		Convey("A replaced binary is asked again", func() {
			output = "mpv 0.38.0 Copyright\n"
			So(filesystem.API().WriteFile(path, []byte("newer binary"), 0o755), ShouldBeNil)
			later := time.Now().Add(time.Hour)
			So(filesystem.API().Chtimes(path, later, later), ShouldBeNil)

			v, err := cachedPlayer(ctx, path, run)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.38.0")
			So(runs, ShouldEqual, 2)
		})

		Convey("A failing run is reported and not cached", func() {
			failing := func(context.Context, string) (string, error) {
				return "", errors.New("exit status 1")
			}
			_, err := cachedPlayer(ctx, "/opt/mpv", failing)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "/opt/mpv --version")
		})
	})
}

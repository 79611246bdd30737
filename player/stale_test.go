//go:build !windows

package player

import (
	"path/filepath"
	"testing"

	"github.com/anisan-cli/mpvipc/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRemoveStale(t *testing.T) {
	Convey("Given a runtime directory with abandoned sockets", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)

		dir := "/run/mpvipc-test"
		fs := filesystem.API()
		So(fs.MkdirAll(filepath.Join(dir, "nested.sock"), 0o700), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(dir, "a.sock"), nil, 0o600), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600), ShouldBeNil)

		Convey("When stale sockets are removed", func() {
			removed, err := RemoveStale(dir)

			Convey("Then only unanswered socket files are deleted", func() {
				So(err, ShouldBeNil)
				So(removed, ShouldResemble, []string{filepath.Join(dir, "a.sock")})

				exists, _ := fs.Exists(filepath.Join(dir, "a.sock"))
				So(exists, ShouldBeFalse)
				exists, _ = fs.Exists(filepath.Join(dir, "notes.txt"))
				So(exists, ShouldBeTrue)
				exists, _ = fs.DirExists(filepath.Join(dir, "nested.sock"))
				So(exists, ShouldBeTrue)
			})
		})

		Convey("When the directory does not exist", func() {
			_, err := RemoveStale("/run/missing")
			So(err, ShouldNotBeNil)
		})
	})
}

package filesystem

import (
	"io"
	"os"
)

// GacheFs lets gache caches read and write through the active backend, so a memory
// filesystem installed by SetMemMapFs also holds the cache files.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}

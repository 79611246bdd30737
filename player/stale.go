package player

import (
	"path/filepath"
	"strings"

	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/where"
)

// RemoveStale deletes socket files under dir that no player answers on.
// An empty dir means the default runtime directory.
func RemoveStale(dir string) (removed []string, err error) {
	if dir == "" {
		dir = where.Runtime()
	}

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sock") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if probeSocket(path) {
			continue
		}

		if err := removeSocket(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}

	return removed, nil
}

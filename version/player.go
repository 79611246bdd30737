package version

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/where"
	"github.com/metafates/gache"
)

// playerRecord is a detected version, valid while the binary keeps its size and mtime.
type playerRecord struct {
	ModTime int64  `json:"mod_time"`
	Size    int64  `json:"size"`
	Version string `json:"version"`
}

const playerCacheLifetime = 30 * 24 * time.Hour

// playerCache is built per call so that it follows the active filesystem backend.
func playerCache() *gache.Cache[map[string]playerRecord] {
	return gache.New[map[string]playerRecord](&gache.Options{
		Path:       filepath.Join(where.Cache(), "player.json"),
		Lifetime:   playerCacheLifetime,
		FileSystem: &filesystem.GacheFs{},
	})
}

var playerVersionPattern = regexp.MustCompile(`(?m)^mpv\s+v?(\d+\.\d+(?:\.\d+)?)`)

// ParsePlayer extracts the semantic version from the first line of `mpv --version` output.
func ParsePlayer(output string) (string, error) {
	m := playerVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("no version found in %q", firstLine(output))
	}

	v := m[1]
	if strings.Count(v, ".") == 1 {
		v += ".0"
	}

	return v, nil
}

// Player returns the semantic version of executable. The answer of `--version` is cached
// per resolved path and reused until the binary's size or modification time changes.
func Player(ctx context.Context, executable string) (string, error) {
	path, err := exec.LookPath(executable)
	if err != nil {
		return "", fmt.Errorf("find %s: %w", executable, err)
	}

	return cachedPlayer(ctx, path, runVersion)
}

func runVersion(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	return string(out), err
}

func cachedPlayer(ctx context.Context, path string, run func(context.Context, string) (string, error)) (string, error) {
	info, statErr := filesystem.API().Stat(path)

	cache := playerCache()
	records, expired, err := cache.Get()
	if err != nil || expired || records == nil {
		records = make(map[string]playerRecord)
	}

	if statErr == nil {
		record, ok := records[path]
		if ok && record.ModTime == info.ModTime().UnixNano() && record.Size == info.Size() {
			return record.Version, nil
		}
	}

	out, err := run(ctx, path)
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", path, err)
	}

	v, err := ParsePlayer(out)
	if err != nil {
		return "", err
	}

	if statErr == nil {
		records[path] = playerRecord{
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
			Version: v,
		}
		if err := cache.Set(records); err != nil {
			log.Warnf("cache player version: %v", err)
		}
	}

	return v, nil
}

// Supported reports whether v is at least constant.MinPlayerVersion.
func Supported(v string) (bool, error) {
	c, err := Compare(v, constant.MinPlayerVersion)
	if err != nil {
		return false, err
	}

	return c >= 0, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

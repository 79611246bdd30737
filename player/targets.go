package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// sanitizeMediaTarget validates that a file or URL is safe to pass on the command line.
// Targets follow a "--" separator, so this mostly guards against control characters.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		if u.Scheme == "" {
			return "", fmt.Errorf("missing URL scheme: %s", l)
		}
		return l, nil
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

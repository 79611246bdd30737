//go:build !windows

package ipc

import (
	"context"
	"net"
	"time"
)

func dial(ctx context.Context, address string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "unix", address)
}

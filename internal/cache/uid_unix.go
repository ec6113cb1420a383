//go:build !windows
// +build !windows

package cache

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// userDir returns the per-user directory level, the numeric uid.
func userDir() string {
	return strconv.Itoa(unix.Getuid())
}

//go:build !windows
// +build !windows

package fs

import (
	"os"
	"syscall"
)

func fixpath(name string) string {
	return name
}

// Chmod changes the mode of the named file to mode.
func Chmod(name string, mode os.FileMode) error {
	err := os.Chmod(fixpath(name), mode)

	// ignore the error if the FS does not support setting this mode (e.g. CIFS with gvfs on Linux)
	if err != nil && isNotSupported(err) {
		return nil
	}

	return err
}

// SetSticky adds the sticky bit to the directory dir, so that in a shared
// parent like /tmp only the owner can remove what it created.
func SetSticky(dir string) error {
	fi, err := os.Stat(fixpath(dir))
	if err != nil {
		return err
	}
	return Chmod(dir, fi.Mode()|os.ModeSticky)
}

// isNotSupported returns true if the error is caused by an unsupported file system feature.
func isNotSupported(err error) bool {
	if perr, ok := err.(*os.PathError); ok && perr.Err == syscall.ENOTSUP {
		return true
	}
	return false
}

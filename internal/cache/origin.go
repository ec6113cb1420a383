//go:build !windows
// +build !windows

package cache

import (
	"syscall"

	"github.com/pkg/xattr"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
)

// originAttr is the extended attribute holding the URL a cache file was
// downloaded from.
const originAttr = "user.mman.origin"

func setOrigin(path, origin string) {
	err := handleXattrErr(xattr.Set(path, originAttr, []byte(origin)))
	if err != nil {
		log.Debugf("unable to record origin of %v: %v", path, err)
	}
}

func getOrigin(path string) string {
	b, err := xattr.Get(path, originAttr)
	if err != nil {
		return ""
	}
	return string(b)
}

func handleXattrErr(err error) error {
	switch e := err.(type) {
	case nil:
		return nil

	case *xattr.Error:
		// On Linux, xattr calls on files in an SMB/CIFS mount can return
		// ENOATTR instead of ENOTSUP.
		switch e.Err {
		case syscall.ENOTSUP, xattr.ENOATTR:
			return nil
		}
		return errors.WithStack(e)

	default:
		return errors.WithStack(e)
	}
}

package cache

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/fs"
)

// Create makes sure the cache directory exists. The dated directory is
// shared between users, the levels below it get the sticky bit.
func (c *Cache) Create() error {
	if c.Created {
		return nil
	}

	dir := c.DatedDir()
	if err := fs.Mkdir(dir, DefaultModes.Dir); err != nil {
		return errors.Wrap(err, "Mkdir")
	}
	if err := fs.Chmod(dir, sharedDirMode); err != nil {
		// created by another user, writing below it may still work
		log.Debugf("chmod %v: %v", dir, err)
	}

	for _, sub := range c.subdirs {
		dir = filepath.Join(dir, sub)
		if err := fs.Mkdir(dir, DefaultModes.Dir); err != nil {
			return errors.Wrap(err, "Mkdir")
		}
		if err := fs.SetSticky(dir); err != nil {
			return errors.Wrap(err, "SetSticky")
		}
	}

	log.Debugf("created cache directory %v", c.path)
	c.Created = true
	return nil
}

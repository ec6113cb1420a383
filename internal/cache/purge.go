package cache

import (
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/fs"
)

// PurgeStale removes the dated cache directories of all days but today,
// including those of other datasets and users as far as permissions allow.
// Directories not named like a dated cache directory are never touched.
func (c *Cache) PurgeStale(today time.Time) error {
	keep := datedDirName(today.Format("20060102"))

	entries, err := fs.ReadDir(c.Base)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "ReadDir")
	}

	var errs []error
	for _, de := range entries {
		name := de.Name()
		if !de.IsDir() || name == keep || !datedDirPattern.MatchString(name) {
			continue
		}

		dir := filepath.Join(c.Base, name)
		log.Debugf("removing stale cache directory %v", dir)
		if err := fs.RemoveAll(dir); err != nil {
			errs = append(errs, errors.Wrap(err, "RemoveAll"))
		}
	}

	return errors.Join(errs...)
}

package cache

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/fs"
	"github.com/skyline93/mman/internal/mman"
)

func (c *Cache) canBeCached(h mman.Handle) bool {
	if c == nil {
		return false
	}

	re, ok := cacheNamePatterns[h.Type]
	return ok && re.MatchString(h.Name)
}

func (c *Cache) filename(h mman.Handle) string {
	return filepath.Join(c.path, h.Name)
}

// CheckHandle returns an error if h names no valid file of its tier.
func CheckHandle(h mman.Handle) error {
	re, ok := cacheNamePatterns[h.Type]
	if !ok {
		return errors.Errorf("invalid cache tier %v", h.Type)
	}
	if !re.MatchString(h.Name) {
		return errors.Errorf("invalid %v cache file name %q", h.Type, h.Name)
	}
	return nil
}

// Load returns the cached bytes for h if they hash to expected. A missing,
// unreadable or damaged file is a miss.
func (c *Cache) Load(h mman.Handle, expected mman.ID) (hit bool, buf []byte) {
	if !c.canBeCached(h) {
		return false, nil
	}

	buf, err := fs.ReadFile(c.filename(h))
	if err != nil {
		log.Debugf("cache miss for %v: %v", h, err)
		return false, nil
	}

	if !mman.Verify(buf, expected) {
		log.Debugf("cache miss for %v: digest is not %v", h, expected.Str())
		return false, nil
	}

	log.Debugf("cache hit for %v", h)
	return true, buf
}

// Save stores buf for h. Nothing is written if hit is set, the data came
// from the cache in the first place. origin is recorded alongside the file
// when the file system supports it.
func (c *Cache) Save(hit bool, h mman.Handle, buf []byte, origin string) error {
	if hit {
		return nil
	}

	if err := CheckHandle(h); err != nil {
		return err
	}

	if err := c.Create(); err != nil {
		return err
	}

	filename := c.filename(h)
	if err := fs.WriteFile(filename, buf, DefaultModes.File); err != nil {
		return errors.Wrap(err, "WriteFile")
	}

	if origin != "" {
		setOrigin(filename, origin)
	}

	log.Debugf("saved %v (%d bytes) to cache", h, len(buf))
	return nil
}

// Has returns true if the file is cached. The content is not verified.
func (c *Cache) Has(h mman.Handle) bool {
	if !c.canBeCached(h) {
		return false
	}

	_, err := fs.Stat(c.filename(h))
	return err == nil
}

// Entry describes a file in the cache.
type Entry struct {
	Handle mman.Handle
	Size   int64
	Origin string
}

// List returns all cached files, sorted by name.
func (c *Cache) List() ([]Entry, error) {
	entries, err := fs.ReadDir(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ReadDir")
	}

	var list []Entry
	for _, de := range entries {
		if !de.Type().IsRegular() {
			continue
		}

		for t := range cacheNamePatterns {
			h := mman.Handle{Type: t, Name: de.Name()}
			if !c.canBeCached(h) {
				continue
			}

			fi, err := de.Info()
			if err != nil {
				continue
			}

			filename := c.filename(h)
			list = append(list, Entry{
				Handle: h,
				Size:   fi.Size(),
				Origin: getOrigin(filename),
			})
		}
	}

	return list, nil
}

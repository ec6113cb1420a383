package cache

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// Cache manages the local cache of verified manifests and pages. All tiers
// live in one directory per day, user and dataset:
//
//	<Base>/mman_<YYYYMMDD>/<uid>/man<suffix>/
type Cache struct {
	path    string
	Base    string
	Created bool

	date string
	// subdirs are the directories between the dated directory and path.
	subdirs []string
}

// Options configure a Cache.
type Options struct {
	// Base is the directory the dated cache directories are created in,
	// the system temp directory if empty.
	Base     string
	Identity mman.Identity
	// Now returns the current time, time.Now if nil.
	Now func() time.Time
}

// Modes are the permissions of created files and directories.
type Modes struct {
	Dir  os.FileMode
	File os.FileMode
}

// DefaultModes are used for the per-user part of the cache. The dated
// directory is shared by all users and gets 01777.
var DefaultModes = Modes{Dir: 0700, File: 0600}

const sharedDirMode = 0777 | os.ModeSticky

const dirPrefix = "mman_"

// datedDirPattern matches the dated directories below Base. Only these are
// ever removed by PurgeStale.
var datedDirPattern = regexp.MustCompile(`^mman_2[0-9]{3}[01][0-9][0-3][0-9]$`)

// cacheNamePatterns restricts the file names each tier accepts.
var cacheNamePatterns = map[mman.FileType]*regexp.Regexp{
	mman.RootFile:    regexp.MustCompile(`^root\.toml\.gz$`),
	mman.ReleaseFile: regexp.MustCompile(`^man.+(amd64|arm64)_hash_2[0-9]{3}[01][0-9][0-3][0-9]\.toml\.gz$`),
	mman.PageFile:    regexp.MustCompile(`^[0-9a-f]{6}\.[1-9a-z]\.gz$`),
}

// RootName is the cache file name of the root manifest.
const RootName = "root.toml.gz"

// New returns a cache for the dataset id. Nothing is created on disk until
// the first Save or an explicit Create.
func New(opts Options) (*Cache, error) {
	if err := opts.Identity.Validate(); err != nil {
		return nil, err
	}

	base := opts.Base
	if base == "" {
		base = os.TempDir()
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Wrap(err, "Abs")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Cache{
		Base: base,
		date: now().Format("20060102"),
	}

	if uid := userDir(); uid != "" {
		c.subdirs = append(c.subdirs, uid)
	}
	c.subdirs = append(c.subdirs, "man"+opts.Identity.Suffix())

	c.path = filepath.Join(append([]string{c.DatedDir()}, c.subdirs...)...)
	return c, nil
}

// Path returns the directory the cache files are stored in.
func (c *Cache) Path() string {
	return c.path
}

// DatedDir returns the shared directory of the day the cache was opened.
func (c *Cache) DatedDir() string {
	return filepath.Join(c.Base, datedDirName(c.date))
}

func datedDirName(date string) string {
	return dirPrefix + date
}

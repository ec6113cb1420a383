package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/cache"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/fs"
	"github.com/skyline93/mman/internal/mirror"
	"github.com/skyline93/mman/internal/mman"
)

// DefaultRootSites are the mirrors the root manifest is published on.
var DefaultRootSites = []string{
	"https://dk7tcyixgpgii.cloudfront.net",
	"https://miketurkey.com",
}

// Loader downloads artifacts from the mirrors.
type Loader interface {
	mirror.Fetcher

	// Load is like Get but may retry failed downloads.
	Load(ctx context.Context, url string) ([]byte, error)
}

// Options configure a Repository.
type Options struct {
	Identity mman.Identity

	// RootSites are the mirrors of the root manifest, DefaultRootSites if
	// empty.
	RootSites []string
	// RaceTimeout bounds each digest announcement race.
	RaceTimeout time.Duration
	// FilenameMode selects how page file names are built, ModeHash or
	// ModeRaw.
	FilenameMode string
	// AllowedHosts are the host suffixes base URLs must be on,
	// DefaultAllowedHosts if empty.
	AllowedHosts []string

	// RootManifestPath is a local root manifest used instead of the mirrors.
	RootManifestPath string
	// ReleaseManifestPath is a local release manifest used instead of the
	// mirrors.
	ReleaseManifestPath string

	// Now returns the current time, time.Now if nil.
	Now func() time.Time
}

// State is the progress of a Repository through the resolution steps.
type State uint8

// These are the states a Repository passes through, in order.
const (
	RootPending State = iota
	RootResolved
	ReleasePending
	ReleaseResolved
)

func (s State) String() string {
	switch s {
	case RootPending:
		return "root pending"
	case RootResolved:
		return "root resolved"
	case ReleasePending:
		return "release pending"
	case ReleaseResolved:
		return "release resolved"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Repository resolves the manifests of one dataset and fetches the pages
// they list.
type Repository struct {
	be    Loader
	Cache *cache.Cache

	opts  Options
	state State

	root    *mman.RootManifest
	dataset *mman.Dataset
	release *mman.ReleaseManifest
}

// New returns a repository that downloads with be and keeps verified
// downloads in c. c may be nil, then nothing is cached.
func New(be Loader, c *cache.Cache, opts Options) (*Repository, error) {
	if err := opts.Identity.Validate(); err != nil {
		return nil, err
	}

	if opts.FilenameMode == "" {
		opts.FilenameMode = ModeHash
	}
	if err := checkMode(opts.FilenameMode); err != nil {
		return nil, err
	}

	if len(opts.RootSites) == 0 {
		opts.RootSites = DefaultRootSites
	}
	if len(opts.AllowedHosts) == 0 {
		opts.AllowedHosts = DefaultAllowedHosts
	}
	if opts.RaceTimeout <= 0 {
		opts.RaceTimeout = mirror.DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Repository{
		be:    be,
		Cache: c,
		opts:  opts,
	}, nil
}

// State returns the current state.
func (r *Repository) State() State {
	return r.state
}

// Identity returns the dataset identity the repository serves.
func (r *Repository) Identity() mman.Identity {
	return r.opts.Identity
}

// loadVerified returns the content of the first candidate that hashes to
// its digest. The cache is consulted first when h is not nil, and verified
// downloads are saved to it. A mismatching download from advisory is used
// anyway after logging a warning, but never cached. Running out of
// candidates returns a fatal error of kind.
func (r *Repository) loadVerified(ctx context.Context, h *mman.Handle, cands []mman.Candidate, advisory string, kind error) ([]byte, error) {
	if len(cands) == 0 {
		return nil, errors.Fatal(kind, "no candidates to download from")
	}

	if h != nil && r.Cache != nil {
		if hit, buf := r.Cache.Load(*h, cands[0].Digest); hit {
			return buf, nil
		}
	}

	var lastError error
	for _, c := range cands {
		buf, err := r.be.Load(ctx, c.URL)
		if err != nil {
			log.Debugf("error loading %v: %v", c.URL, err)
			lastError = err
			continue
		}

		if !mman.Verify(buf, c.Digest) {
			if c.URL == advisory {
				log.Warnf("digest of %v does not match the announced %v, using it anyway", c.URL, c.Digest.Str())
				return buf, nil
			}
			lastError = errors.Errorf("%v returned invalid hash, want %v", c.URL, c.Digest.Str())
			log.Debugf("%v", lastError)
			continue
		}

		if h != nil && r.Cache != nil {
			if err := r.Cache.Save(false, *h, buf, c.URL); err != nil {
				log.Warnf("unable to save %v to the cache: %v", h, err)
			}
		}
		return buf, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, errors.Fatalf(kind, "loading from %d mirrors failed: %v", len(cands), lastError)
}

// candidates pairs every url with the same digest.
func candidates(urls []string, id mman.ID) []mman.Candidate {
	cands := make([]mman.Candidate, 0, len(urls))
	for _, u := range urls {
		cands = append(cands, mman.Candidate{URL: u, Digest: id})
	}
	return cands
}

// readLocalManifest reads a manifest from disk, decompressing files that end
// in .gz.
func readLocalManifest(filename string) ([]byte, error) {
	buf, err := fs.ReadFile(filename)
	if err != nil {
		return nil, errors.Fatalf(errors.ErrConfig, "unable to read manifest: %v", err)
	}

	if strings.HasSuffix(filename, ".gz") {
		buf, err = backend.Gunzip(buf)
		if err != nil {
			return nil, errors.Fatalf(errors.ErrInvalidManifest, "%v: %v", filename, err)
		}
	}
	return buf, nil
}

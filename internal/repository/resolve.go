package repository

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// Request names the page a client asks for.
type Request struct {
	Name    string
	Section string
	// Release is a release tag, empty for the latest release.
	Release string
}

// Resolve runs the whole pipeline for req and returns the page text.
// Stale cache directories are removed afterwards.
func (r *Repository) Resolve(ctx context.Context, req Request) (string, error) {
	if err := r.ensureRelease(ctx, req.Release); err != nil {
		return "", err
	}

	cands, err := r.Locate(req.Name, req.Section)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", errors.Fatalf(errors.ErrNotFound, "no manual entry for %v", pageName(req))
	}

	text, err := r.FetchPage(ctx, cands)
	if err != nil {
		return "", err
	}

	r.Purge()
	return text, nil
}

// ensureRelease resolves the manifests that have not been resolved yet.
func (r *Repository) ensureRelease(ctx context.Context, tag string) error {
	if r.state == RootPending {
		if err := r.ResolveRoot(ctx); err != nil {
			return err
		}
	}
	if r.state != ReleaseResolved {
		return r.ResolveRelease(ctx, tag)
	}
	return nil
}

// Locate returns the candidates for a page of the resolved release.
func (r *Repository) Locate(name, section string) ([]mman.Candidate, error) {
	if r.state != ReleaseResolved {
		return nil, errors.Errorf("Locate called in state %v", r.state)
	}

	l := Locator{Mode: r.opts.FilenameMode, AllowedHosts: r.opts.AllowedHosts}
	return l.Locate(r.release, name, section, r.root.BaseURLs)
}

// Purge removes the cache directories of previous days.
func (r *Repository) Purge() {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.PurgeStale(r.opts.Now()); err != nil {
		log.Warnf("unable to purge old cache directories: %v", err)
	}
}

// OSName returns the OS name of the resolved release.
func (r *Repository) OSName() string {
	if r.release == nil {
		return ""
	}
	return r.release.OSName
}

// Message returns the message of the root manifest.
func (r *Repository) Message() string {
	if r.root == nil {
		return ""
	}
	return r.root.Message
}

// BaseURLs returns the page mirrors, best mirror first.
func (r *Repository) BaseURLs() []string {
	if r.root == nil {
		return nil
	}
	return r.root.BaseURLs
}

// Root returns the root manifest, nil before ResolveRoot.
func (r *Repository) Root() *mman.RootManifest {
	return r.root
}

// Dataset returns the selected release of the root manifest.
func (r *Repository) Dataset() *mman.Dataset {
	return r.dataset
}

// Release returns the release manifest, nil before ResolveRelease.
func (r *Repository) Release() *mman.ReleaseManifest {
	return r.release
}

// CacheDir returns the directory verified downloads are kept in.
func (r *Repository) CacheDir() string {
	if r.Cache == nil {
		return ""
	}
	return r.Cache.Path()
}

func pageName(req Request) string {
	if req.Section == "" {
		return req.Name
	}
	return req.Name + "(" + req.Section + ")"
}

package repository

import (
	"context"
	"net/url"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/cache"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mirror"
	"github.com/skyline93/mman/internal/mman"
)

const releaseSuffix = ".toml.gz"

// ResolveRelease selects the release tag from the root manifest, loads its
// release manifest and checks that it belongs to the dataset. An empty tag
// selects the latest release. Content that does not match the announced
// digest is never used.
func (r *Repository) ResolveRelease(ctx context.Context, tag string) error {
	switch r.state {
	case RootResolved, ReleasePending:
	default:
		return errors.Errorf("ResolveRelease called in state %v", r.state)
	}
	r.state = ReleasePending

	var (
		d    *mman.Dataset
		data []byte
		err  error
	)

	if r.opts.ReleaseManifestPath != "" {
		log.Debugf("using release manifest %v", r.opts.ReleaseManifestPath)
		data, err = readLocalManifest(r.opts.ReleaseManifestPath)
		d = &mman.Dataset{}
	} else {
		d, err = r.root.Select(r.opts.Identity, tag)
		if err != nil {
			return err
		}
		data, err = r.loadRelease(ctx, d)
	}
	if err != nil {
		return err
	}

	m, err := mman.ParseReleaseManifest(data)
	if err != nil {
		return err
	}
	if err := m.CheckIdentity(d.OSName, r.opts.Identity); err != nil {
		return err
	}
	if d.OSName == "" {
		d.OSName = m.OSName
	}

	r.dataset = d
	r.release = m
	r.state = ReleaseResolved
	return nil
}

func (r *Repository) loadRelease(ctx context.Context, d *mman.Dataset) ([]byte, error) {
	if len(d.URLs) == 0 {
		return nil, errors.Fatalf(errors.ErrInvalidManifest, "release %v has no manifest urls", d.Key)
	}
	for _, u := range d.URLs {
		if !strings.HasSuffix(u, releaseSuffix) {
			return nil, errors.Fatalf(errors.ErrInvalidManifest, "release manifest url %q does not end in %v", u, releaseSuffix)
		}
	}

	res, err := mirror.Race(ctx, r.be, d.URLs, r.opts.RaceTimeout)
	if err != nil {
		return nil, err
	}
	urls := mirror.SortByOrigin(d.URLs, res.URL)

	h := &mman.Handle{Type: mman.ReleaseFile, Name: baseName(urls[0])}
	if err := cache.CheckHandle(*h); err != nil {
		log.Debugf("release manifest is not cached: %v", err)
		h = nil
	}

	buf, err := r.loadVerified(ctx, h, candidates(urls, res.Digest), "", errors.ErrDownloadExhausted)
	if err != nil {
		return nil, err
	}

	data, err := backend.Gunzip(buf)
	if err != nil {
		return nil, errors.Fatalf(errors.ErrInvalidManifest, "release manifest: %v", err)
	}
	return data, nil
}

// baseName returns the last element of the path of u.
func baseName(u string) string {
	if parsed, err := url.Parse(u); err == nil {
		return path.Base(parsed.Path)
	}
	return path.Base(u)
}

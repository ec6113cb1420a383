package repository

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/cache"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mirror"
	"github.com/skyline93/mman/internal/mman"
)

// RootURLs returns the URLs of the root manifest on every root site.
func (r *Repository) RootURLs() []string {
	p := r.opts.Identity.RootManifestPath()

	urls := make([]string, 0, len(r.opts.RootSites))
	for _, site := range r.opts.RootSites {
		urls = append(urls, strings.TrimRight(site, "/")+p)
	}
	return urls
}

// ResolveRoot loads and parses the root manifest. The base URLs and the
// release manifest URLs it lists are ordered so that the mirror that
// answered first is tried first.
func (r *Repository) ResolveRoot(ctx context.Context) error {
	if r.state != RootPending {
		return errors.Errorf("ResolveRoot called in state %v", r.state)
	}

	var (
		data   []byte
		winner string
		err    error
	)

	if r.opts.RootManifestPath != "" {
		log.Debugf("using root manifest %v", r.opts.RootManifestPath)
		data, err = readLocalManifest(r.opts.RootManifestPath)
	} else {
		data, winner, err = r.loadRoot(ctx)
	}
	if err != nil {
		return err
	}

	m, err := mman.ParseRootManifest(data)
	if err != nil {
		return err
	}

	m.BaseURLs = mirror.SortByOrigin(m.BaseURLs, winner)
	for i := range m.Datasets {
		m.Datasets[i].URLs = mirror.SortByOrigin(m.Datasets[i].URLs, winner)
	}

	r.root = m
	r.state = RootResolved
	return nil
}

// loadRoot returns the uncompressed root manifest and the URL of the mirror
// that won the race.
func (r *Repository) loadRoot(ctx context.Context) ([]byte, string, error) {
	urls := r.RootURLs()

	res, err := mirror.Race(ctx, r.be, urls, r.opts.RaceTimeout)
	if err != nil {
		return nil, "", err
	}
	urls = mirror.SortByOrigin(urls, res.URL)

	h := mman.Handle{Type: mman.RootFile, Name: cache.RootName}
	buf, err := r.loadVerified(ctx, &h, candidates(urls, res.Digest), res.URL, errors.ErrDownloadExhausted)
	if err != nil {
		return nil, "", err
	}

	data, err := backend.Gunzip(buf)
	if err != nil {
		return nil, "", errors.Fatalf(errors.ErrInvalidManifest, "root manifest: %v", err)
	}
	return data, res.URL, nil
}

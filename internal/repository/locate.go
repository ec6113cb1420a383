package repository

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/skyline93/mman/internal/backend/layout"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// File name modes of the pages on the mirrors.
const (
	// ModeHash names pages after their digest, e.g. "3f4a5b.1.gz".
	ModeHash = "hash"
	// ModeRaw names pages after their logical name, e.g. "ls.1". Deprecated.
	ModeRaw = "raw"
)

// DefaultAllowedHosts are the host suffixes page mirrors may be on.
var DefaultAllowedHosts = []string{"miketurkey.com", "cloudfront.net"}

var manNamePattern = regexp.MustCompile(`^[A-Za-z0-9_\-\[]+`)

func checkMode(mode string) error {
	switch mode {
	case ModeHash, ModeRaw:
		return nil
	}
	return errors.Fatalf(errors.ErrConfig, "invalid file name mode %q", mode)
}

// Locator builds the download candidates of a page.
type Locator struct {
	Mode string
	// AllowedHosts are the host suffixes base URLs must be on,
	// DefaultAllowedHosts if empty.
	AllowedHosts []string
}

// Locate returns the candidates for the page name in section, one per base
// URL. Without a section the sections 1 to 9 are tried in order. An empty
// result means the release has no such page.
func Locate(rel *mman.ReleaseManifest, name, section string, baseURLs []string, mode string) ([]mman.Candidate, error) {
	return Locator{Mode: mode}.Locate(rel, name, section, baseURLs)
}

// Locate is like the package level Locate.
func (l Locator) Locate(rel *mman.ReleaseManifest, name, section string, baseURLs []string) ([]mman.Candidate, error) {
	if !manNamePattern.MatchString(name) {
		return nil, errors.Fatalf(errors.ErrConfig, "invalid manual name %q", name)
	}
	if err := checkSection(section); err != nil {
		return nil, err
	}

	mode := l.Mode
	if mode == "" {
		mode = ModeHash
	}
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	allowed := l.AllowedHosts
	if len(allowed) == 0 {
		allowed = DefaultAllowedHosts
	}
	for _, base := range baseURLs {
		if err := checkBaseURL(base, allowed); err != nil {
			return nil, err
		}
	}

	page, ok := lookupPage(rel, name, section)
	if !ok {
		return nil, nil
	}

	fname := page.Name
	if mode == ModeHash {
		fname = page.Digest.Prefix(6) + "." + page.Section() + ".gz"
	}

	cands := make([]mman.Candidate, 0, len(baseURLs))
	for _, base := range baseURLs {
		lay := &layout.DigestLayout{URL: base}
		cands = append(cands, mman.Candidate{
			URL:    lay.Filename(page.Digest, fname),
			Digest: page.Digest,
		})
	}
	return cands, nil
}

func lookupPage(rel *mman.ReleaseManifest, name, section string) (mman.Page, bool) {
	if section != "" {
		return rel.Lookup(name + "." + section)
	}

	for sec := '1'; sec <= '9'; sec++ {
		if p, ok := rel.Lookup(name + "." + string(sec)); ok {
			return p, true
		}
	}
	return mman.Page{}, false
}

func checkSection(section string) error {
	if section == "" {
		return nil
	}
	if len(section) == 1 && section[0] >= '1' && section[0] <= '9' {
		return nil
	}
	return errors.Fatalf(errors.ErrConfig, "invalid section %q", section)
}

func checkBaseURL(base string, allowed []string) error {
	u, err := url.Parse(base)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return errors.Fatalf(errors.ErrConfig, "invalid base url %q", base)
	}

	host := u.Hostname()
	for _, suffix := range allowed {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return nil
		}
	}
	return errors.Fatalf(errors.ErrConfig, "base url %q is not on an allowed host", base)
}

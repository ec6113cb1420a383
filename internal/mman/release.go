package mman

import (
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/skyline93/mman/internal/errors"
)

// Reserved keys of a release manifest.
const (
	keyOSName = "OSNAME"
	keyArch   = "ARCH"
	keyLang   = "LANG"
)

// Page is one manual page listed in a release manifest.
type Page struct {
	// Name is the logical file name, e.g. "ls.1".
	Name   string
	Digest ID
	// Meta holds all other fields of the entry.
	Meta map[string]interface{}
}

// Section returns the part of the name after the last dot.
func (p Page) Section() string {
	i := strings.LastIndexByte(p.Name, '.')
	if i < 0 {
		return ""
	}
	return p.Name[i+1:]
}

// ReleaseManifest maps the manual pages of one release to their digests.
type ReleaseManifest struct {
	OSName string
	Arch   string
	Lang   string
	Pages  map[string]Page
}

// ParseReleaseManifest decodes a release manifest. Every entry must carry a
// valid digest.
func ParseReleaseManifest(data []byte) (*ReleaseManifest, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Fatalf(errors.ErrInvalidManifest, "parse release manifest: %v", err)
	}

	m := &ReleaseManifest{
		Pages: make(map[string]Page, len(raw)),
	}

	for key, value := range raw {
		switch key {
		case keyOSName:
			m.OSName = stringValue(value)
			continue
		case keyArch:
			m.Arch = stringValue(value)
			continue
		case keyLang:
			m.Lang = stringValue(value)
			continue
		}

		table, ok := value.(map[string]interface{})
		if !ok {
			return nil, errors.Fatalf(errors.ErrInvalidManifest, "release manifest entry %q is not a table", key)
		}

		hash, _ := table["hash"].(string)
		id, err := ParseID(hash)
		if err != nil {
			return nil, errors.Fatalf(errors.ErrInvalidManifest, "release manifest entry %q: %v", key, err)
		}

		meta := make(map[string]interface{}, len(table))
		for k, v := range table {
			if k != "hash" {
				meta[k] = v
			}
		}

		m.Pages[key] = Page{Name: key, Digest: id, Meta: meta}
	}

	if m.OSName == "" {
		return nil, errors.Fatal(errors.ErrInvalidManifest, "release manifest has no OSNAME")
	}

	return m, nil
}

// CheckIdentity makes sure the manifest was published for the dataset
// osname of id.
func (m *ReleaseManifest) CheckIdentity(osname string, id Identity) error {
	if !strings.HasPrefix(m.OSName, id.OSNamePrefix()) {
		return errors.Fatalf(errors.ErrIdentityMismatch, "invalid OSNAME %q in release manifest", m.OSName)
	}
	if osname != "" && m.OSName != osname {
		return errors.Fatalf(errors.ErrIdentityMismatch, "mismatch OSNAME [%s, %s]", osname, m.OSName)
	}
	if m.Arch != "" && !strings.EqualFold(m.Arch, id.Arch) {
		return errors.Fatalf(errors.ErrIdentityMismatch, "mismatch ARCH [%s, %s]", id.Arch, m.Arch)
	}
	if m.Lang != "" && !strings.EqualFold(m.Lang, id.Lang) {
		return errors.Fatalf(errors.ErrIdentityMismatch, "mismatch LANG [%s, %s]", id.Lang, m.Lang)
	}
	return nil
}

// Lookup returns the page with the logical name.
func (m *ReleaseManifest) Lookup(name string) (Page, bool) {
	p, ok := m.Pages[name]
	return p, ok
}

// Names returns the sorted, deduplicated manual names with the section
// stripped. When section is between 1 and 9 only names in that section are
// returned, otherwise all of them.
func (m *ReleaseManifest) Names(section int) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(m.Pages))

	for name := range m.Pages {
		base, sec, ok := splitSection(name)
		if section >= 1 && section <= 9 {
			if !ok || sec != section {
				continue
			}
		}
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		names = append(names, base)
	}

	sort.Strings(names)
	return names
}

// splitSection splits "name.N" with N in 1..9.
func splitSection(name string) (string, int, bool) {
	if len(name) < 3 || name[len(name)-2] != '.' {
		return name, 0, false
	}
	c := name[len(name)-1]
	if c < '1' || c > '9' {
		return name, 0, false
	}
	return name[:len(name)-2], int(c - '0'), true
}

package mman

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/skyline93/mman/internal/errors"
)

// LatestRelease is the release tag that selects the newest published
// release of a dataset.
const LatestRelease = "@LATEST-RELEASE"

// StatusRelease marks datasets that are eligible for LatestRelease.
const StatusRelease = "release"

// Dataset describes one published release of a dataset in the root manifest.
type Dataset struct {
	Key    string
	OSName string
	OS     string
	Lang   string
	Arch   string
	Status string
	// Date is the release date as digits only, e.g. "20241227".
	Date string
	URLs []string
}

// Matches reports whether the dataset belongs to id. Identity fields the
// dataset does not declare match anything.
func (d Dataset) Matches(id Identity) bool {
	eq := func(have, want string) bool {
		return have == "" || strings.EqualFold(have, want)
	}
	return eq(d.OS, id.OS) && eq(d.Lang, id.Lang) && eq(d.Arch, id.Arch)
}

// RootManifest is the top-level index of a dataset: the mirrors page
// content is served from and the releases that exist.
type RootManifest struct {
	BaseURLs []string
	Message  string
	// Datasets is sorted by Key.
	Datasets []Dataset
}

// ParseRootManifest decodes a root manifest. A manifest without base URLs
// is rejected.
func ParseRootManifest(data []byte) (*RootManifest, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Fatalf(errors.ErrInvalidManifest, "parse root manifest: %v", err)
	}

	m := &RootManifest{}
	var err error

	m.BaseURLs, err = stringList(raw["baseurls"])
	if err != nil {
		return nil, errors.Fatalf(errors.ErrInvalidManifest, "root manifest baseurls: %v", err)
	}
	if len(m.BaseURLs) == 0 {
		return nil, errors.Fatal(errors.ErrInvalidManifest, "empty baseurls in root manifest")
	}

	if msg, ok := raw["message"].(string); ok {
		m.Message = msg
	}

	for key, value := range raw {
		table, ok := value.(map[string]interface{})
		if !ok {
			continue
		}

		d := Dataset{
			Key:    key,
			OSName: stringValue(table["osname"]),
			OS:     stringValue(table["os"]),
			Lang:   stringValue(table["lang"]),
			Arch:   stringValue(table["arch"]),
			Status: stringValue(table["status"]),
		}

		date := table["date"]
		if date == nil {
			date = table["thedate"]
		}
		d.Date = strings.ReplaceAll(stringValue(date), "-", "")

		d.URLs, err = stringList(table["urls"])
		if err != nil {
			return nil, errors.Fatalf(errors.ErrInvalidManifest, "root manifest dataset %q urls: %v", key, err)
		}

		m.Datasets = append(m.Datasets, d)
	}

	sort.Slice(m.Datasets, func(i, j int) bool {
		return m.Datasets[i].Key < m.Datasets[j].Key
	})

	return m, nil
}

// Select returns the dataset for id and the release tag. An empty tag or
// LatestRelease selects the release with the newest date; any other tag
// must equal a dataset key or its OS name.
func (m *RootManifest) Select(id Identity, tag string) (*Dataset, error) {
	if tag == "" {
		tag = LatestRelease
	}

	var found *Dataset
	for i := range m.Datasets {
		d := &m.Datasets[i]
		if !d.Matches(id) {
			continue
		}

		if tag != LatestRelease {
			if d.Key == tag || d.OSName == tag {
				return d, nil
			}
			continue
		}

		if !strings.EqualFold(d.Status, StatusRelease) {
			continue
		}
		if found == nil || d.Date > found.Date {
			found = d
		}
	}

	if found == nil {
		return nil, errors.Fatalf(errors.ErrNotFound, "release %q not found for %v", tag, id)
	}
	return found, nil
}

// OSNames returns the OS names of all datasets in key order.
func (m *RootManifest) OSNames() []string {
	names := make([]string, 0, len(m.Datasets))
	for _, d := range m.Datasets {
		names = append(names, d.OSName)
	}
	return names
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func stringList(v interface{}) ([]string, error) {
	if v == nil {
		return nil, nil
	}

	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}

	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", item)
		}
		list = append(list, s)
	}
	return list, nil
}

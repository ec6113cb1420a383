package mman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline93/mman/internal/errors"
)

const testReleaseManifest = `
OSNAME = "FreeBSD 14.2-RELEASE"
ARCH = "arm64"
LANG = "jpn"

["ls.1"]
hash = "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"

["foo.3"]
hash = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
title = "foo library"

["foo.8"]
hash = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
`

func TestParseReleaseManifest(t *testing.T) {
	m, err := ParseReleaseManifest([]byte(testReleaseManifest))
	require.NoError(t, err)

	assert.Equal(t, "FreeBSD 14.2-RELEASE", m.OSName)
	assert.Equal(t, "arm64", m.Arch)
	assert.Equal(t, "jpn", m.Lang)
	require.Len(t, m.Pages, 3)

	p, ok := m.Lookup("foo.3")
	require.True(t, ok)
	assert.Equal(t, "3", p.Section())
	assert.Equal(t, "foo library", p.Meta["title"])
	assert.Equal(t, "a7ffc6f8", p.Digest.Str())

	_, ok = m.Lookup("foo.1")
	assert.False(t, ok)
}

func TestParseReleaseManifestInvalid(t *testing.T) {
	for _, doc := range []string{
		`["ls.1"]` + "\nhash = \"abc\"\n" + `OSNAME = "FreeBSD 14.2-RELEASE"`,
		"OSNAME = \"FreeBSD\"\n\"ls.1\" = \"3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532\"",
		`["ls.1"]` + "\nhash = \"3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532\"",
		`OSNAME = `,
	} {
		_, err := ParseReleaseManifest([]byte(doc))
		require.Error(t, err, doc)
		assert.True(t, errors.Is(err, errors.ErrInvalidManifest), doc)
	}
}

func TestReleaseManifestCheckIdentity(t *testing.T) {
	m, err := ParseReleaseManifest([]byte(testReleaseManifest))
	require.NoError(t, err)

	require.NoError(t, m.CheckIdentity("FreeBSD 14.2-RELEASE", jpfb))

	err = m.CheckIdentity("FreeBSD 14.1-RELEASE", jpfb)
	assert.True(t, errors.Is(err, errors.ErrIdentityMismatch))

	err = m.CheckIdentity("FreeBSD 14.2-RELEASE", Identity{OS: "fb", Lang: "eng", Arch: "arm64"})
	assert.True(t, errors.Is(err, errors.ErrIdentityMismatch))

	err = m.CheckIdentity("", Identity{OS: "ob", Lang: "eng", Arch: "arm64"})
	assert.True(t, errors.Is(err, errors.ErrIdentityMismatch))
}

func TestReleaseManifestNames(t *testing.T) {
	m, err := ParseReleaseManifest([]byte(testReleaseManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"foo", "ls"}, m.Names(0))
	assert.Equal(t, []string{"ls"}, m.Names(1))
	assert.Equal(t, []string{"foo"}, m.Names(8))
	assert.Empty(t, m.Names(5))
}

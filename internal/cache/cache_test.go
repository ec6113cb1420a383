package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline93/mman/internal/mman"
)

var testIdentity = mman.Identity{OS: "fb", Lang: "jpn", Arch: "arm64"}

func testNow() time.Time {
	return time.Date(2024, 12, 27, 10, 30, 0, 0, time.UTC)
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := New(Options{
		Base:     t.TempDir(),
		Identity: testIdentity,
		Now:      testNow,
	})
	require.NoError(t, err)
	return c
}

func TestNewLayout(t *testing.T) {
	c := newTestCache(t)

	assert.Equal(t, filepath.Join(c.Base, "mman_20241227"), c.DatedDir())
	assert.Equal(t, "manjpfb", filepath.Base(c.Path()))
	assert.True(t, len(c.Path()) > len(c.DatedDir()))

	_, err := os.Stat(c.DatedDir())
	assert.True(t, os.IsNotExist(err), "nothing may be created before the first save")
}

func TestNewUnknownIdentity(t *testing.T) {
	_, err := New(Options{
		Base:     t.TempDir(),
		Identity: mman.Identity{OS: "nb", Lang: "eng", Arch: "amd64"},
	})
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	c := newTestCache(t)

	buf := []byte("compressed page bytes")
	id := mman.Hash(buf)
	h := mman.Handle{Type: mman.PageFile, Name: id.Prefix(6) + ".1.gz"}

	hit, _ := c.Load(h, id)
	assert.False(t, hit)

	require.NoError(t, c.Save(false, h, buf, "https://miketurkey.com/x"))
	assert.True(t, c.Created)
	assert.True(t, c.Has(h))

	hit, got := c.Load(h, id)
	require.True(t, hit)
	assert.Equal(t, buf, got)

	// same name, different expected digest
	other := mman.Hash([]byte("other"))
	hit, got = c.Load(h, other)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestSaveHitWritesNothing(t *testing.T) {
	c := newTestCache(t)

	h := mman.Handle{Type: mman.RootFile, Name: RootName}
	require.NoError(t, c.Save(false, h, []byte("first"), ""))

	require.NoError(t, c.Save(true, h, []byte("second"), ""))

	data, err := os.ReadFile(filepath.Join(c.Path(), RootName))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLoadCorrupted(t *testing.T) {
	c := newTestCache(t)

	buf := []byte("release manifest")
	id := mman.Hash(buf)
	h := mman.Handle{Type: mman.ReleaseFile, Name: "manjpfb_arm64_hash_20241203.toml.gz"}

	require.NoError(t, c.Save(false, h, buf, ""))

	damaged := append([]byte(nil), buf...)
	damaged[0] ^= 0x01
	require.NoError(t, os.WriteFile(filepath.Join(c.Path(), h.Name), damaged, 0600))

	hit, got := c.Load(h, id)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestInvalidNames(t *testing.T) {
	c := newTestCache(t)

	var tests = []mman.Handle{
		{Type: mman.RootFile, Name: "other.toml.gz"},
		{Type: mman.ReleaseFile, Name: "manjpfb_arm64_hash_1999.toml.gz"},
		{Type: mman.ReleaseFile, Name: "../root.toml.gz"},
		{Type: mman.PageFile, Name: "abc12.1.gz"},
		{Type: mman.PageFile, Name: "ABC123.1.gz"},
		{Type: mman.PageFile, Name: "abc123.0.gz"},
		{Type: mman.PageFile, Name: "abc123.1"},
		{Type: 0, Name: RootName},
	}

	for _, h := range tests {
		t.Run(h.String(), func(t *testing.T) {
			assert.Error(t, CheckHandle(h))
			assert.Error(t, c.Save(false, h, []byte("x"), ""))
			assert.False(t, c.Has(h))
		})
	}

	assert.NoError(t, CheckHandle(mman.Handle{Type: mman.PageFile, Name: "abc123.1.gz"}))
	assert.NoError(t, CheckHandle(mman.Handle{Type: mman.PageFile, Name: "0a1b2c.n.gz"}))
}

func TestList(t *testing.T) {
	c := newTestCache(t)

	list, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	root := mman.Handle{Type: mman.RootFile, Name: RootName}
	page := mman.Handle{Type: mman.PageFile, Name: "abc123.1.gz"}
	require.NoError(t, c.Save(false, page, []byte("page"), ""))
	require.NoError(t, c.Save(false, root, []byte("root data"), ""))
	require.NoError(t, os.WriteFile(filepath.Join(c.Path(), "stray"), []byte("x"), 0600))

	list, err = c.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, page, list[0].Handle)
	assert.Equal(t, int64(4), list[0].Size)
	assert.Equal(t, root, list[1].Handle)
	assert.Equal(t, int64(9), list[1].Size)
}

func TestPurgeStale(t *testing.T) {
	c := newTestCache(t)

	h := mman.Handle{Type: mman.RootFile, Name: RootName}
	old, err := New(Options{
		Base:     c.Base,
		Identity: testIdentity,
		Now: func() time.Time {
			return testNow().AddDate(0, 0, -2)
		},
	})
	require.NoError(t, err)
	require.NoError(t, old.Save(false, h, []byte("old"), ""))

	// today's directory is kept even when it holds nothing
	require.NoError(t, os.Mkdir(c.DatedDir(), 0700))

	untouched := []string{"mman_tmp", "mman_20241", "other_20241225", "mman_19991231"}
	for _, name := range untouched {
		require.NoError(t, os.Mkdir(filepath.Join(c.Base, name), 0700))
	}
	require.NoError(t, os.WriteFile(filepath.Join(c.Base, "mman_20241224"), []byte("file"), 0600))

	require.NoError(t, c.PurgeStale(testNow()))

	_, err = os.Stat(old.DatedDir())
	assert.True(t, os.IsNotExist(err), "stale directory %v still exists", old.DatedDir())

	_, err = os.Stat(c.DatedDir())
	assert.NoError(t, err)

	for _, name := range append(untouched, "mman_20241224") {
		_, err = os.Stat(filepath.Join(c.Base, name))
		assert.NoError(t, err, name)
	}
}

func TestPurgeStaleMissingBase(t *testing.T) {
	c, err := New(Options{
		Base:     filepath.Join(t.TempDir(), "missing"),
		Identity: testIdentity,
		Now:      testNow,
	})
	require.NoError(t, err)

	assert.NoError(t, c.PurgeStale(testNow()))
}

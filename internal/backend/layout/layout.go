package layout

import (
	"regexp"
	"strings"

	"github.com/skyline93/mman/internal/mman"
)

// Layout computes the location of files on a mirror.
type Layout interface {
	Filename(id mman.ID, name string) string
	Name() string
}

// DigestLayout stores every file in a directory named after its digest,
// below a directory named after the first byte of the digest:
//
//	<URL>/<2 hex>/<64 hex>/<name>
type DigestLayout struct {
	URL string
}

var _ Layout = &DigestLayout{}

var slashes = regexp.MustCompile(`/{2,}`)

// Name returns the name of the layout.
func (l *DigestLayout) Name() string {
	return "digest"
}

// Filename returns the URL of the file name with digest id.
func (l *DigestLayout) Filename(id mman.ID, name string) string {
	h := id.String()
	return Join(l.URL, h[:2], h, name)
}

// Join combines a URL and path components, collapsing repeated slashes in
// the path.
func Join(base string, elem ...string) string {
	scheme := ""
	if i := strings.Index(base, "://"); i >= 0 {
		scheme, base = base[:i+3], base[i+3:]
	}

	p := base + "/" + strings.Join(elem, "/")
	return scheme + slashes.ReplaceAllString(p, "/")
}

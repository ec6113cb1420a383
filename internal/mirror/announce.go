package mirror

import (
	"strings"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// AnnouncementSuffix is appended to an artifact URL to get the URL of its
// digest announcement.
const AnnouncementSuffix = ".SHA3-256"

const (
	announcePrefix    = "SHA3-256("
	announceSeparator = ")= "
)

// AnnouncementURL returns the URL of the digest announcement for url.
func AnnouncementURL(url string) string {
	return url + AnnouncementSuffix
}

// ParseAnnouncement extracts the digest from an announcement body of the
// form "SHA3-256(<name>)= <64 hex>". Trailing whitespace is ignored.
func ParseAnnouncement(body []byte) (mman.ID, error) {
	s := strings.TrimRight(string(body), " \t\r\n")

	if !strings.HasPrefix(s, announcePrefix) {
		return mman.ID{}, errors.Errorf("announcement does not start with %q", announcePrefix)
	}

	i := strings.LastIndex(s, announceSeparator)
	if i < 0 {
		return mman.ID{}, errors.Errorf("announcement has no %q separator", announceSeparator)
	}

	id, err := mman.ParseID(s[i+len(announceSeparator):])
	if err != nil {
		return mman.ID{}, errors.Wrap(err, "announcement")
	}
	return id, nil
}

package repository

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// FetchPage returns the text of the page the candidates point to. The
// digest is checked over the downloaded bytes before they are decompressed.
// Pages that are not gzip compressed are verified but not cached.
func (r *Repository) FetchPage(ctx context.Context, cands []mman.Candidate) (string, error) {
	if len(cands) == 0 {
		return "", errors.Fatal(errors.ErrNotFound, "no candidates for page")
	}

	name := baseName(cands[0].URL)
	compressed := backend.IsGzipName(name)

	var h *mman.Handle
	if compressed {
		h = &mman.Handle{Type: mman.PageFile, Name: name}
	} else {
		log.Warnf("%v is not compressed, raw file names are deprecated", name)
	}

	buf, err := r.loadVerified(ctx, h, cands, "", errors.ErrContentUnavailable)
	if err != nil {
		return "", err
	}

	if compressed {
		buf, err = backend.Gunzip(buf)
		if err != nil {
			return "", errors.Fatalf(errors.ErrContentUnavailable, "page %v: %v", name, err)
		}
	}
	return string(buf), nil
}

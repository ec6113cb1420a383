package backend

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/skyline93/mman/internal/errors"
)

// maxUncompressed limits the size of a decompressed manifest or page.
const maxUncompressed = 256 << 20

// Gunzip decompresses a gzip stream held in memory.
func Gunzip(buf []byte) ([]byte, error) {
	rd, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(err, "gzip.NewReader")
	}
	defer func() {
		_ = rd.Close()
	}()

	data, err := readAll(rd, maxUncompressed)
	if err != nil {
		return nil, errors.Wrap(err, "gunzip")
	}
	return data, nil
}

// Gzip compresses buf. It is used to produce test fixtures and the files a
// mirror serves.
func Gzip(buf []byte) ([]byte, error) {
	var out bytes.Buffer
	wr := gzip.NewWriter(&out)
	if _, err := io.Copy(wr, bytes.NewReader(buf)); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	if err := wr.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	return out.Bytes(), nil
}

// IsGzipName reports whether name carries the suffix of a compressed file.
func IsGzipName(name string) bool {
	return strings.HasSuffix(name, ".gz")
}

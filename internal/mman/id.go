package mman

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// idSize contains the size of an ID, in bytes.
const idSize = 32

// ID is the SHA3-256 digest of an artifact as it is stored on the mirrors,
// i.e. of the compressed bytes.
type ID [idSize]byte

// ParseID converts the given string to an ID. Only the lowercase form used by
// the manifests and announcements is accepted.
func ParseID(s string) (ID, error) {
	if len(s) != hex.EncodedLen(idSize) {
		return ID{}, fmt.Errorf("invalid length for ID: %q", s)
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ID{}, fmt.Errorf("invalid ID: %q", s)
		}
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid ID: %s", err)
	}

	id := ID{}
	copy(id[:], b)

	return id, nil
}

const shortStr = 4

// Str returns the shortened string version of id.
func (id *ID) Str() string {
	if id == nil {
		return "[nil]"
	}

	if id.IsNull() {
		return "[null]"
	}

	return hex.EncodeToString(id[:shortStr])
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Prefix returns the first n hex characters of id.
func (id ID) Prefix(n int) string {
	s := id.String()
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// IsNull returns true iff id only consists of null bytes.
func (id ID) IsNull() bool {
	var nullID ID

	return id == nullID
}

// Equal compares an ID to another other.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Hash returns the ID for data.
func Hash(data []byte) ID {
	return sha3.Sum256(data)
}

// Verify reports whether data hashes to expected.
func Verify(data []byte, expected ID) bool {
	return Hash(data).Equal(expected)
}

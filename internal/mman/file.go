package mman

// FileType is the cache tier a file belongs to.
type FileType uint8

// These are the different tiers the cache keeps.
const (
	RootFile FileType = 1 + iota
	ReleaseFile
	PageFile
)

func (t FileType) String() string {
	s := "invalid"
	switch t {
	case RootFile:
		s = "root"
	case ReleaseFile:
		s = "release"
	case PageFile:
		s = "page"
	}
	return s
}

// Handle is used to store and access data in the cache.
type Handle struct {
	Type FileType
	Name string
}

func (h Handle) String() string {
	return "<" + h.Type.String() + "/" + h.Name + ">"
}

// Candidate is one place an artifact can be downloaded from, together with
// the digest the downloaded bytes must have.
type Candidate struct {
	URL    string
	Digest ID
}

package mman

import (
	"fmt"
	"strings"

	"github.com/skyline93/mman/internal/errors"
)

// Identity selects one published dataset: an OS family, the natural
// language of the pages and the architecture they were generated on.
type Identity struct {
	OS   string
	Lang string
	Arch string
}

func (id Identity) String() string {
	return fmt.Sprintf("(%s, %s, %s)", id.OS, id.Lang, id.Arch)
}

type dataset struct {
	suffix   string
	webDBNum string
	osPrefix string
}

// datasets is the fixed table of identities that have published data.
var datasets = map[Identity]dataset{
	{OS: "fb", Lang: "eng", Arch: "arm64"}: {suffix: "enfb", webDBNum: "1001", osPrefix: "FreeBSD"},
	{OS: "fb", Lang: "jpn", Arch: "arm64"}: {suffix: "jpfb", webDBNum: "1001", osPrefix: "FreeBSD"},
	{OS: "ob", Lang: "eng", Arch: "arm64"}: {suffix: "enob", webDBNum: "1001", osPrefix: "OpenBSD"},
}

// Validate returns an ErrConfig error for identities without a dataset.
func (id Identity) Validate() error {
	if _, ok := datasets[id]; !ok {
		return errors.Fatalf(errors.ErrConfig, "unknown dataset identity %v", id)
	}
	return nil
}

// Suffix returns the short dataset name used in directory names, e.g. "jpfb".
func (id Identity) Suffix() string {
	return datasets[id].suffix
}

// WebDBNum returns the number of the web database the dataset is published in.
func (id Identity) WebDBNum() string {
	return datasets[id].webDBNum
}

// OSNamePrefix returns the prefix every OSNAME of the dataset starts with.
func (id Identity) OSNamePrefix() string {
	return datasets[id].osPrefix
}

// RootManifestPath returns the path of the root manifest below a root site.
func (id Identity) RootManifestPath() string {
	return fmt.Sprintf("/clidirs/man%s/%s/root.toml.gz", id.Suffix(), id.WebDBNum())
}

// IdentityForCommand returns the identity preset by one of the historical
// per-dataset command names (manenfb, manjpfb, manenob).
func IdentityForCommand(name string) (Identity, bool) {
	name = strings.TrimSuffix(name, ".exe")
	if !strings.HasPrefix(name, "man") {
		return Identity{}, false
	}
	suffix := strings.TrimPrefix(name, "man")
	for id, ds := range datasets {
		if ds.suffix == suffix {
			return id, true
		}
	}
	return Identity{}, false
}

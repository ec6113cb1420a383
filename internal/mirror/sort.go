package mirror

import (
	"net/url"
	"sort"
)

// origin returns scheme://host of an https URL, or "" for anything else.
func origin(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// SortByOrigin returns a copy of urls with the URLs served from the same
// origin as winner moved to the front. The order within both groups is
// kept. A winner that is not an https URL leaves the order unchanged.
func SortByOrigin(urls []string, winner string) []string {
	out := append([]string(nil), urls...)

	o := origin(winner)
	if o == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return origin(out[i]) == o && origin(out[j]) != o
	})
	return out
}

package dedup

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalURL normalizes a posting URL for comparison: scheme and host are
// lower-cased, the fragment, tracking parameters and a trailing slash are
// dropped, and the query is sorted. Unparseable input is only trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}

	q := u.Query()
	for k := range q {
		if isTrackingParam(k) {
			q.Del(k)
		}
	}
	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isTrackingParam(k string) bool {
	lk := strings.ToLower(k)
	switch lk {
	case "gclid", "fbclid", "msclkid", "mc_cid", "mc_eid", "mkt_tok", "gh_src", "lever-source", "lever-origin":
		return true
	}
	return strings.HasPrefix(lk, "utm_")
}

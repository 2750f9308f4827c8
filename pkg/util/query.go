package util

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var externalPath = regexp.MustCompile(`^(https?:|mailto:|tel:)`)

// IsExternal reports whether path points outside the application.
func IsExternal(path string) bool {
	return externalPath.MatchString(path)
}

// EncodeQuery renders params as "?k=v&k2=v2" with keys sorted. An empty map
// yields "".
func EncodeQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := lo.Keys(params)
	slices.Sort(keys)
	pairs := lo.Map(keys, func(k string, _ int) string {
		return url.QueryEscape(k) + "=" + url.QueryEscape(params[k])
	})
	return "?" + strings.Join(pairs, "&")
}

// ParseQuery returns the query parameters of rawURL. Repeated keys keep their
// last value; malformed escapes are kept verbatim.
func ParseQuery(rawURL string) map[string]string {
	out := map[string]string{}
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return out
	}
	query, _, _ = strings.Cut(query, "#")
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		out[unescape(k)] = unescape(v)
	}
	return out
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

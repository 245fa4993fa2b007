package cache

import (
	"fmt"
	"sort"
	"strings"
)

// KeySeparator delimiter between cache key segments
const KeySeparator = "::"

// Key join a key family prefix with its segments
func Key(family string, segments ...string) string {
	if len(segments) == 0 {
		return family
	}
	return family + KeySeparator + strings.Join(segments, KeySeparator)
}

// QueryKey build a stable key from a query's filter+sort signature.
// Fields are emitted as name=value pairs in sorted order so that two
// equivalent queries always land on the same cache entry.
func QueryKey(family string, fields map[string]string) string {
	if len(fields) == 0 {
		return family
	}

	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return family
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, fields[name]))
	}

	return family + KeySeparator + strings.Join(parts, KeySeparator)
}

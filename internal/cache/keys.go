package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// cacheFields is the allow-list of request fields that participate in key
// generation. Anything else (pagination, request ids) is excluded so that
// semantically equivalent requests collide on the same key.
var cacheFields = []string{
	"destination",
	"duration",
	"budget",
	"group_size",
	"travel_style",
	"interests",
	"start_date",
}

// BuildRequestKey derives a deterministic cache key from request
// parameters. List values are sorted and the allow-listed structure is
// serialized with sorted keys before hashing, so the key is invariant under
// list reordering and irrelevant extra fields. MD5 is used as a stable
// digest, not for collision resistance against an adversary.
func BuildRequestKey(params map[string]any) string {
	normalized := make(map[string]any, len(cacheFields))
	for _, field := range cacheFields {
		value, ok := params[field]
		if !ok {
			continue
		}
		normalized[field] = normalizeValue(value)
	}

	// encoding/json writes map keys in sorted order, which keeps the
	// serialization canonical across processes and platforms.
	data, err := json.Marshal(normalized)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", normalized))
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case []string:
		sorted := append([]string(nil), v...)
		sort.Strings(sorted)
		return sorted
	case []any:
		strs := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return v
			}
			strs = append(strs, s)
		}
		sort.Strings(strs)
		return strs
	default:
		return v
	}
}

// BuildPlaceKey composes the human-readable key used for grouped-place
// lookups: normalized destination, normalized experience tier, and the
// sorted pipe-joined preference list. Stable under preference reordering
// and whitespace/case differences.
func BuildPlaceKey(destination, experience string, preferences []string) string {
	normPrefs := make([]string, 0, len(preferences))
	for _, p := range preferences {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normPrefs = append(normPrefs, p)
		}
	}
	sort.Strings(normPrefs)

	return strings.ToLower(strings.TrimSpace(destination)) +
		"__" + strings.ToLower(strings.TrimSpace(experience)) +
		"__" + strings.Join(normPrefs, "|")
}

package cache

import (
	"fmt"
	"strings"
)

// GenerateKey builds a cache key from parts joined with ':'.
func GenerateKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// GenerateKeyWithParams builds a cache key with a deterministic parameter
// suffix.
func GenerateKeyWithParams(base string, params map[string]string) string {
	if len(params) == 0 {
		return base
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(base)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(":%s=%s", k, params[k]))
	}
	return sb.String()
}

package cache

import (
	"strings"
	"time"
)

// Policy assigns a freshness window to keys by prefix. Longest prefix wins.
type Policy struct {
	TTLs    map[string]time.Duration
	Default time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		TTLs: map[string]time.Duration{
			"services":       30 * time.Minute,
			"directory":      60 * time.Minute,
			"accommodations": 15 * time.Minute,
			"quotes":         5 * time.Minute,
		},
		Default: 10 * time.Minute,
	}
}

func (p Policy) TTL(key string) time.Duration {
	best, bestLen := p.Default, -1
	for prefix, ttl := range p.TTLs {
		if strings.HasPrefix(key, prefix) && len(prefix) > bestLen {
			best, bestLen = ttl, len(prefix)
		}
	}
	return best
}

// Prefix returns the segment of key before the first ':'.
func Prefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

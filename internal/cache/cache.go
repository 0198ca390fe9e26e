// Package cache provides the namespaced lookup cache used by the agent for
// intent classification, property search, and web search results.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Namespaces. Each carries its own TTL so hot intent lookups expire quickly
// while web search results stick around longer.
const (
	NamespaceIntent         = "intent"
	NamespacePropertySearch = "property_search"
	NamespaceWebSearch      = "web_search"
)

// Default TTLs per namespace.
const (
	DefaultIntentTTL         = 5 * time.Minute
	DefaultPropertySearchTTL = 10 * time.Minute
	DefaultWebSearchTTL      = 30 * time.Minute
)

// Cache stores opaque string values. Get returns ok=false on a miss; a backend
// failure is also reported as a miss so callers always fall through to the
// real computation.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
}

// Key derives a stable cache key from a namespace and a set of parameters.
// Parameters are sorted by name before hashing so map iteration order never
// changes the key.
func Key(namespace string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make(map[string]string, len(params))
	for _, name := range names {
		pairs[name] = params[name]
	}
	data, _ := json.Marshal(pairs)

	sum := md5.Sum(data)
	return namespace + ":" + hex.EncodeToString(sum[:])[:16]
}

// NormalizeText lower-cases and trims a message for use as a cache parameter.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

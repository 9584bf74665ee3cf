package cache

import "fmt"

// UserKey is the cache key of a single user record.
func UserKey(id fmt.Stringer) string {
	return "user:" + id.String()
}

// BlogKey is the cache key of a single blog record.
func BlogKey(id fmt.Stringer) string {
	return "blog:" + id.String()
}

package storage

import "strings"

// Scheme prefixes locations that live in object storage.
const Scheme = "s3://"

// ParseLocation splits "s3://bucket/key" into bucket and key.
// ok is false for anything that is not a complete s3 location.
func ParseLocation(loc string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(loc, Scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(loc, Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Location formats a bucket and key as an s3 location.
func Location(bucket, key string) string {
	return Scheme + bucket + "/" + strings.TrimPrefix(key, "/")
}

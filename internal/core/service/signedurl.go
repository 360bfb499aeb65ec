package service

import (
	"net/url"
	"strings"
)

// Query parameters that mark a storage URL as time-limited. Covers
// S3-style presigned URLs and the token-style links some stores issue.
var signedURLParams = []string{"X-Amz-Expires", "X-Amz-Signature", "Expires", "token"}

// IsSignedURL reports whether raw looks like an expiring signed storage
// URL, i.e. one that will eventually need a refresh.
func IsSignedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return false
	}
	q := u.Query()
	for _, p := range signedURLParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// StorageKey extracts the stable object key from a signed URL: the URL
// path without its leading slash. The key survives URL reissue, so it is
// what the refresh endpoint is asked about.
func StorageKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// PublicBlobURL builds the anonymous-read URL of a blob in a public container:
// https://<container>.<domain>/<container>/<blob>
func PublicBlobURL(container, domain, blob string) string {
	return fmt.Sprintf("https://%s.%s/%s/%s", container, strings.Trim(domain, "/."), container, escapeKey(blob))
}

// escapeKey path-escapes each segment of an object key, keeping the slashes
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

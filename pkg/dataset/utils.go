package dataset

import (
	"crypto/md5"
	"net/url"
	"strings"
)

func md5Sum(data []byte) [16]byte {
	return md5.Sum(data)
}

// escapeFilePath escapes each path segment of p while preserving "/"
// separators, matching the teacher's escapeFilePath in utils.go.
func escapeFilePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

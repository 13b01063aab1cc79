package relay

import "strings"

// ManifestExt marks a requested path as a playlist that needs rewriting.
const ManifestExt = ".m3u8"

// IsManifest reports whether path names a playlist.
func IsManifest(path string) bool {
	return strings.HasSuffix(path, ManifestExt)
}

// RewriteManifest replaces every literal occurrence of baseURL in body with
// replacement, left to right and non-overlapping. Tags, durations and
// sequence numbers are left untouched.
func RewriteManifest(body, baseURL, replacement string) string {
	if baseURL == "" {
		return body
	}
	return strings.ReplaceAll(body, baseURL, replacement)
}

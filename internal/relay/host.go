package relay

import (
	"net/http"
	"strings"
)

// HostURL returns the externally visible root of the relay for r, always
// ending in "/". A non-empty publicURL wins. Otherwise the scheme comes from
// the connection and the host from the Host header; with trustForwarded set,
// X-Forwarded-Proto and X-Forwarded-Host take precedence.
func HostURL(r *http.Request, publicURL string, trustForwarded bool) string {
	if publicURL != "" {
		if !strings.HasSuffix(publicURL, "/") {
			publicURL += "/"
		}
		return publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trustForwarded {
		if p := firstHeaderValue(r.Header.Get("X-Forwarded-Proto")); p != "" {
			scheme = strings.ToLower(p)
		}
		if h := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); h != "" {
			host = h
		}
	}

	return scheme + "://" + host + "/"
}

// firstHeaderValue takes the client-most entry of a comma separated header.
func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

package relay

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://relay.example:8080/", nil)
	assert.Equal(t, "http://relay.example:8080/", HostURL(req, "", false))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://relay.example:8080/", HostURL(req, "", false))
}

func TestHostURL_public_url_wins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://internal:10000/", nil)
	req.Header.Set("X-Forwarded-Host", "ignored.example")
	assert.Equal(t, "https://tv.example/", HostURL(req, "https://tv.example", true))
	assert.Equal(t, "https://tv.example/", HostURL(req, "https://tv.example/", true))
}

func TestHostURL_forwarded_headers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://internal:10000/", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	req.Header.Set("X-Forwarded-Host", "tv.example, lb.internal")

	assert.Equal(t, "http://internal:10000/", HostURL(req, "", false), "untrusted headers ignored")
	assert.Equal(t, "https://tv.example/", HostURL(req, "", true))
}

package relay

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// ProxyRoute is the first path segment under which the relay serves origin files.
const ProxyRoute = "proxy"

// ErrManifestEncoding is returned when a playlist body is not valid UTF-8.
var ErrManifestEncoding = errors.New("manifest is not valid UTF-8")

// Content is one origin response, valid for the lifetime of a single request.
type Content struct {
	Target      string
	ContentType string
	// Length is the origin Content-Length, or -1 when unknown.
	Length int64
	Body   io.ReadCloser
}

// Service resolves relay paths against the origin and rewrites playlists.
// It keeps no state between calls.
type Service struct {
	origin  Origin
	fetcher Fetcher
}

// NewService returns a Service relaying origin through fetcher.
func NewService(origin Origin, fetcher Fetcher) *Service {
	return &Service{origin: origin, fetcher: fetcher}
}

// Origin returns the configured origin.
func (s *Service) Origin() Origin {
	return s.origin
}

// TargetURL joins path onto the origin base URL. path is used verbatim:
// no cleaning, escaping or traversal checks are applied.
func (s *Service) TargetURL(path string) string {
	return s.origin.BaseURL + "/" + path
}

// RelayBaseURL is the string origin base URLs are rewritten to for a client
// that reached the relay at hostURL (which ends in "/").
func (s *Service) RelayBaseURL(hostURL string) string {
	return hostURL + ProxyRoute
}

// IndexURL is the relayed playlist link offered on the index page.
func (s *Service) IndexURL(hostURL string) string {
	return hostURL + ProxyRoute + "/" + s.origin.Manifest
}

// Open fetches path from the origin. The caller must close Content.Body.
func (s *Service) Open(ctx context.Context, path string) (*Content, error) {
	target := s.TargetURL(path)
	resp, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Content{
		Target:      target,
		ContentType: resp.Header.Get("Content-Type"),
		Length:      resp.ContentLength,
		Body:        resp.Body,
	}, nil
}

// Rewrite reads a whole playlist body and points every origin base URL in it
// at the relay reached through hostURL.
func (s *Service) Rewrite(body io.Reader, hostURL string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrManifestEncoding
	}
	return RewriteManifest(string(b), s.origin.BaseURL, s.RelayBaseURL(hostURL)), nil
}

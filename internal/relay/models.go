package relay

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidOrigin is returned by NewOrigin for URLs that cannot be relayed.
var ErrInvalidOrigin = errors.New("invalid origin url")

// Origin is the fixed upstream playlist, split into the directory the
// playlist lives in and the playlist file name.
type Origin struct {
	// URL is the absolute playlist URL as configured.
	URL string
	// BaseURL is URL up to, but not including, the last "/".
	BaseURL string
	// Manifest is everything after the last "/".
	Manifest string
}

// NewOrigin validates raw and decomposes it into an Origin.
func NewOrigin(raw string) (Origin, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Origin{}, fmt.Errorf("%w: %q is not absolute", ErrInvalidOrigin, raw)
	}

	i := strings.LastIndex(raw, "/")
	if u.Path == "" || i == len(raw)-1 {
		return Origin{}, fmt.Errorf("%w: %q has no playlist file name", ErrInvalidOrigin, raw)
	}

	return Origin{
		URL:      raw,
		BaseURL:  raw[:i],
		Manifest: raw[i+1:],
	}, nil
}

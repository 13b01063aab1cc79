package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsManifest(t *testing.T) {
	assert.True(t, IsManifest("chunklist.m3u8"))
	assert.True(t, IsManifest("sub/dir/index.m3u8"))
	assert.False(t, IsManifest("seg1.ts"))
	assert.False(t, IsManifest("index.M3U8"))
	assert.False(t, IsManifest("index.m3u8?token=1"))
}

func TestRewriteManifest_scenario(t *testing.T) {
	body := "#EXTM3U\n#EXT-X-VERSION:3\nhttp://origin/live/seg1.ts\n#EXT-X-ENDLIST\n"
	got := RewriteManifest(body, "http://origin/live", "http://relay.example/proxy")
	assert.Equal(t, "#EXTM3U\n#EXT-X-VERSION:3\nhttp://relay.example/proxy/seg1.ts\n#EXT-X-ENDLIST\n", got)
}

func TestRewriteManifest_counts(t *testing.T) {
	base := "http://origin/live"
	relayBase := "http://relay.example/proxy"

	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:120\n")
	for i := 0; i < 5; i++ {
		b.WriteString("#EXTINF:6.000,\n")
		b.WriteString(base + "/media_120.ts\n")
	}

	got := RewriteManifest(b.String(), base, relayBase)
	assert.Equal(t, 5, strings.Count(got, relayBase))
	assert.Equal(t, 0, strings.Count(got, base+"/"))
	assert.Contains(t, got, "#EXT-X-MEDIA-SEQUENCE:120")
	assert.Equal(t, 5, strings.Count(got, "#EXTINF:6.000,"))
}

func TestRewriteManifest_relative_entries_untouched(t *testing.T) {
	body := "#EXTM3U\nmedia_1.ts\nmedia_2.ts\n"
	assert.Equal(t, body, RewriteManifest(body, "http://origin/live", "http://relay/proxy"))
}

func TestRewriteManifest_case_sensitive(t *testing.T) {
	body := "HTTP://ORIGIN/LIVE/a.ts\n"
	assert.Equal(t, body, RewriteManifest(body, "http://origin/live", "http://relay/proxy"))
}

func TestRewriteManifest_metacharacters_literal(t *testing.T) {
	body := "http://o/a.b+c(1)/x.ts\nhttp://o/aXb+c(1)/y.ts\n"
	got := RewriteManifest(body, "http://o/a.b+c(1)", "R")
	assert.Equal(t, "R/x.ts\nhttp://o/aXb+c(1)/y.ts\n", got)
}

func TestRewriteManifest_empty_base(t *testing.T) {
	assert.Equal(t, "abc", RewriteManifest("abc", "", "R"))
}

package relay

import (
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"hls-relay/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const (
	playlistContentType = "application/vnd.apple.mpegurl"
	defaultContentType  = "application/octet-stream"

	// fetchErrorPrefix precedes the failure description in 500 responses.
	fetchErrorPrefix = "error fetching file: "

	chunkSize = 8192
)

var indexTemplate = template.Must(template.New("index").Parse(`<html>
<head><title>HLS Proxy</title></head>
<body>
    <h2>Stream link via proxy:</h2>
    <a href="{{.}}" target="_blank">{{.}}</a>
</body>
</html>
`))

// Options control how the relay derives its own externally visible URL.
type Options struct {
	// PublicURL, when set, replaces the scheme and host taken from requests.
	PublicURL string
	// TrustForwardedHeaders honors X-Forwarded-Proto and X-Forwarded-Host.
	TrustForwardedHeaders bool
}

// Handler exposes the relay HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
	opts    Options
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics, opts Options) *Handler {
	return &Handler{svc: svc, log: log, metrics: m, opts: opts}
}

// Routes mounts the index and proxy endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/"+ProxyRoute+"/*", h.Proxy)
}

// Index handles GET / with a page linking to the relayed playlist.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	link := h.svc.IndexURL(h.hostURL(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := indexTemplate.Execute(w, link); err != nil {
		h.log.Debug("write index failed", slog.String("error", err.Error()))
	}
}

// Proxy handles GET /proxy/{path}. Playlists are rewritten so that their
// segment URLs point back at the relay; everything else is streamed through
// unchanged.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	manifest := IsManifest(path)

	if h.metrics != nil {
		kind := metrics.KindSegment
		if manifest {
			kind = metrics.KindManifest
		}
		h.metrics.IncOriginFetches(kind)
		h.metrics.FetchStarted()
		defer h.metrics.FetchDone()
	}

	content, err := h.svc.Open(r.Context(), path)
	if err != nil {
		h.log.Warn("origin fetch failed",
			slog.String("target", h.svc.TargetURL(path)),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncOriginErrors()
		}
		http.Error(w, fetchErrorPrefix+err.Error(), http.StatusInternalServerError)
		return
	}
	defer content.Body.Close()

	if manifest {
		h.serveManifest(w, r, content)
		return
	}
	h.serveSegment(w, content)
}

func (h *Handler) serveManifest(w http.ResponseWriter, r *http.Request, content *Content) {
	body, err := h.svc.Rewrite(content.Body, h.hostURL(r))
	if err != nil {
		h.log.Error("manifest rewrite failed",
			slog.String("target", content.Target),
			slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)

	h.log.Debug("manifest relayed", slog.String("target", content.Target))
	if h.metrics != nil {
		h.metrics.IncManifestsRewritten()
	}
}

func (h *Handler) serveSegment(w http.ResponseWriter, content *Content) {
	contentType := content.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	if content.Length >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(content.Length, 10))
	}
	w.WriteHeader(http.StatusOK)

	n, err := forward(w, content.Body)
	if h.metrics != nil {
		h.metrics.AddSegmentBytes(n)
	}
	if err != nil {
		// Headers are gone already; all that is left is to stop.
		h.log.Debug("segment forward interrupted",
			slog.String("target", content.Target),
			slog.Int64("bytes", n),
			slog.String("error", err.Error()))
		return
	}
	h.log.Debug("segment relayed", slog.String("target", content.Target), slog.Int64("bytes", n))
}

func (h *Handler) hostURL(r *http.Request) string {
	return HostURL(r, h.opts.PublicURL, h.opts.TrustForwardedHeaders)
}

// forward copies src to w in chunks of at most chunkSize bytes, flushing after
// each one so the client sees data as it arrives from the origin.
func forward(w http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, chunkSize)

	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

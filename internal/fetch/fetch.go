package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var ErrNonHTML = errors.New("non-html content")

type Options struct {
	Timeout     time.Duration
	DialTimeout time.Duration
	SizeCap     int64
	UserAgent   string
	// Cookie is sent verbatim; private trackers only serve the upload page to
	// logged-in sessions.
	Cookie string
	// RatePerSecond limits requests per host. Zero disables limiting.
	RatePerSecond float64
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
	cookie    string
	rps       float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHTTPClient(opts Options) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "pt-autofill/1.0"
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		sizeCap:   opts.SizeCap,
		userAgent: ua,
		cookie:    opts.Cookie,
		rps:       opts.RatePerSecond,
		limiters:  map[string]*rate.Limiter{},
	}
}

func (h *HTTPClient) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), 1)
		h.limiters[host] = l
	}
	return l
}

// Fetch downloads an upload page. It returns the body (capped at the size
// limit), the final URL after redirects, the content type and the elapsed
// time.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", "", 0, fmt.Errorf("invalid url %q", rawURL)
	}
	if h.rps > 0 {
		if err := h.limiter(u.Host).Wait(ctx); err != nil {
			return nil, "", "", 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", "", 0, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)
	if h.cookie != "" {
		req.Header.Set("Cookie", h.cookie)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", "", 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, "", "", 0, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, "", "", 0, err
		}
		body = &gzipBody{Reader: gz, raw: resp.Body}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") && mediaType != "" {
		// still allow if empty (some servers omit), otherwise reject non-html
		body.Close()
		return nil, "", "", 0, ErrNonHTML
	}

	var r io.Reader = body
	if h.sizeCap > 0 {
		r = io.LimitReader(body, h.sizeCap)
	}
	finalURL := resp.Request.URL.String()
	return readCloser{Reader: r, Closer: body}, finalURL, contentType, time.Since(start), nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (g *gzipBody) Close() error {
	g.Reader.Close()
	return g.raw.Close()
}

// Package httpcache is an in-process LRU cache for GET responses with TTL
// expiry and ETag revalidation.
package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	Enabled    bool          `env:"COMIC_VINE_HTTP_CACHE_ENABLED" yaml:"enabled"`
	TTL        time.Duration `env:"COMIC_VINE_HTTP_CACHE_TTL" yaml:"ttl"`
	MaxEntries int           `env:"COMIC_VINE_HTTP_CACHE_MAX_ENTRIES" yaml:"max_entries"`
}

// DefaultConfig is disabled; TTL and size apply once enabled.
func DefaultConfig() Config {
	return Config{TTL: 60 * time.Second, MaxEntries: 512}
}

type Transport struct {
	base http.RoundTripper
	c    *Cache
}

// NewTransport wraps base. A disabled config returns base unchanged.
func NewTransport(base http.RoundTripper, cfg Config) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if !cfg.Enabled {
		return base
	}
	return &Transport{base: base, c: New(cfg)}
}

// cacheKey hashes the URL and Accept header. The URL carries api_key, so
// entries are per key without the key being held in clear.
func cacheKey(req *http.Request) string {
	sum := sha256.Sum256([]byte(req.Method + " " + req.URL.String() + "\x00" + req.Header.Get("Accept")))
	return hex.EncodeToString(sum[:])
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("httpcache: nil request")
	}
	if !strings.EqualFold(req.Method, http.MethodGet) {
		return t.base.RoundTrip(req)
	}

	key := cacheKey(req)

	if ent, ok, fresh := t.c.Get(key, time.Now()); ok {
		if fresh {
			return cachedResponse(req, ent), nil
		}

		// Expired: revalidate when the entry carries an ETag.
		if ent.etag != "" {
			req2 := req.Clone(req.Context())
			req2.Header = req.Header.Clone()
			req2.Header.Set("If-None-Match", ent.etag)

			resp, err := t.base.RoundTrip(req2)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode == http.StatusNotModified {
				_ = resp.Body.Close()
				t.c.Revalidated(key, time.Now())
				return cachedResponse(req, ent), nil
			}
			return t.store(req, key, resp)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	return t.store(req, key, resp)
}

// store buffers resp and caches it when the status is 2xx. Failed responses
// pass through and evict any stale entry.
func (t *Transport) store(req *http.Request, key string, resp *http.Response) (*http.Response, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpcache: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.c.Delete(key)
		return responseWithBody(req, resp, b, resp.Header), nil
	}
	ent := t.c.Put(key, resp, b, time.Now())
	return responseWithBody(req, resp, b, ent.header), nil
}

func responseWithBody(req *http.Request, resp *http.Response, body []byte, header http.Header) *http.Response {
	return &http.Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Header:        header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
		Proto:         resp.Proto,
		ProtoMajor:    resp.ProtoMajor,
		ProtoMinor:    resp.ProtoMinor,
	}
}

func cachedResponse(req *http.Request, ent entry) *http.Response {
	status := ent.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        ent.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(ent.body)),
		ContentLength: int64(len(ent.body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}

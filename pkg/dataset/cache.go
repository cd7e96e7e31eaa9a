package dataset

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-hfdataset/hfdataset/internal/logging"
	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// Cache is the content-addressed HTTP cache (spec §4.1). It owns every
// file under its cache directory exclusively.
type Cache struct {
	client   hfhttp.Client
	logger   logging.Interface
	dir      string
	progress *progressReporter

	mu    sync.Mutex
	locks map[string]*entryLock
}

// entryLock serializes concurrent CachedDownload calls for the same
// metadata path, grounded on rogeecn-any-hub's fs_store.go lockEntry.
// Content addressing already makes racing writers land on identical
// bytes; the lock exists to avoid redundant GETs, not correctness.
type entryLock struct {
	mu   sync.Mutex
	refs int
}

// NewCache builds a Cache around an injected hfhttp.Client.
func NewCache(client hfhttp.Client, opts ...CacheOption) (*Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("dataset: client must not be nil")
	}
	cfg := defaultCacheConfig()
	if err := cfg.apply(opts...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Cache{
		client:   client,
		logger:   cfg.Logger,
		dir:      cfg.CacheDir,
		progress: newProgressReporter(cfg.Logger, cfg.EnableProgress),
		locks:    make(map[string]*entryLock),
	}, nil
}

type cacheMetadata struct {
	Etag string `json:"etag"`
	URL  string `json:"url"`
}

var unpaddedBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// encURL implements spec §3's enc(url): lowercase unpadded base32 of the
// MD5 of the URL bytes.
func encURL(rawURL string) string {
	sum := md5Sum([]byte(rawURL))
	return lowercase(unpaddedBase32.EncodeToString(sum[:]))
}

// encEtag implements spec §3's enc(etag): lowercase unpadded base32 of
// the etag bytes, quotes included exactly as stored.
func encEtag(etag string) string {
	return lowercase(unpaddedBase32.EncodeToString([]byte(etag)))
}

// HeadResult is the outcome of a HEAD-probe (spec §4.1.3).
type HeadResult struct {
	Etag          string
	FinalURL      string
	WasRedirected bool
}

// HeadDownload exposes the HEAD-and-follow logic standalone, for
// callers that manage their own storage (spec §4.1.3).
func (c *Cache) HeadDownload(ctx context.Context, rawURL string, headers http.Header) (HeadResult, error) {
	return c.headProbe(ctx, rawURL, headers)
}

// headProbe implements spec §4.1.1: HEAD with redirects disabled,
// following same-origin redirects in place and cross-origin redirects
// with Authorization stripped.
func (c *Cache) headProbe(ctx context.Context, rawURL string, headers http.Header) (HeadResult, error) {
	currentURL := rawURL
	wasRedirected := false

	for {
		resp, err := c.client.Do(ctx, &hfhttp.Request{
			Method:          http.MethodHead,
			URL:             currentURL,
			Headers:         headers,
			FollowRedirects: false,
		})
		if err != nil {
			return HeadResult{}, newNetworkError(err)
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location := resp.Header("Location")
			if location == "" {
				return HeadResult{}, newHTTPOtherError(resp.StatusCode)
			}

			nextURL, crossOrigin, err := resolveRedirect(currentURL, location)
			if err != nil {
				return HeadResult{}, newBadConfigError(err)
			}

			if crossOrigin {
				headers = stripAuthorization(headers)
			}
			currentURL = nextURL
			wasRedirected = true
			continue
		}

		if resp.StatusCode < 100 || resp.StatusCode >= 400 {
			return HeadResult{}, classifyHTTPError(resp, "", "", "")
		}

		etag := resp.Header("x-linked-etag")
		if etag == "" {
			etag = resp.Header("etag")
		}
		if etag == "" {
			return HeadResult{}, newNoEtagError(currentURL)
		}

		return HeadResult{Etag: etag, FinalURL: currentURL, WasRedirected: wasRedirected}, nil
	}
}

// resolveRedirect resolves location against base and reports whether
// the result is cross-origin (spec §4.1.1: a relative Location is
// same-origin by definition).
func resolveRedirect(base, location string) (resolved string, crossOrigin bool, err error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false, err
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return "", false, err
	}

	if locURL.Host == "" {
		merged := *baseURL
		merged.Path = locURL.Path
		merged.RawQuery = locURL.RawQuery
		return merged.String(), false, nil
	}

	return locURL.String(), !hostsEqual(baseURL, locURL), nil
}

func hostsEqual(a, b *url.URL) bool {
	return a.Host == b.Host
}

func stripAuthorization(headers http.Header) http.Header {
	if headers == nil {
		return nil
	}
	clone := headers.Clone()
	clone.Del("Authorization")
	return clone
}

// dirFor computes <cache_dir>/huggingface[/cache_scope] (spec §4.1 step
// 1), creating it if missing.
func (c *Cache) dirFor(cacheScope string) (string, error) {
	dir := filepath.Join(c.dir, huggingfaceSubdir)
	if cacheScope != "" {
		dir = filepath.Join(dir, cacheScope)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("dataset: creating cache directory: %w", err)
	}
	return dir, nil
}

func metadataPath(dir, rawURL string) string {
	return filepath.Join(dir, encURL(rawURL)+".json")
}

func contentPath(dir, rawURL, etag string) string {
	return filepath.Join(dir, encURL(rawURL)+"."+encEtag(etag))
}

func lowercase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// readMetadata loads and parses a metadata file. A parse failure is
// treated as "absent" per spec §4.1.2, not propagated as an error.
func readMetadata(path string) (*cacheMetadata, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var m cacheMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return &m, true
}

// writeMetadataAtomic writes a metadata file via temp-file-then-rename,
// grounded on fs_store.go's Put.
func writeMetadataAtomic(dir string, m cacheMetadata) (string, error) {
	path := metadataPath(dir, m.URL)
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// lockFor serializes callers racing on the same metadata path.
func (c *Cache) lockFor(key string) func() {
	c.mu.Lock()
	lock := c.locks[key]
	if lock == nil {
		lock = &entryLock{}
		c.locks[key] = lock
	}
	lock.refs++
	c.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		c.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}
}

// CachedDownload implements the algorithm in spec §4.1.
func (c *Cache) CachedDownload(ctx context.Context, rawURL string, opts CachedDownloadOptions) (string, error) {
	dir, err := c.dirFor(opts.CacheScope)
	if err != nil {
		return "", err
	}

	unlock := c.lockFor(metadataPath(dir, rawURL))
	defer unlock()

	metaPath := metadataPath(dir, rawURL)

	if opts.DownloadMode == ForceRedownload {
		os.Remove(metaPath)
	}

	offline := IsOfflineMode()
	if opts.Offline != nil {
		offline = *opts.Offline
	}

	if offline {
		meta, ok := readMetadata(metaPath)
		if !ok {
			return "", &OfflineMissError{baseError: &baseError{Message: fmt.Sprintf("offline mode is enabled and %q is not in the cache", rawURL)}}
		}
		cPath := contentPath(dir, rawURL, meta.Etag)
		if opts.VerificationMode == NoChecks || fileExists(cPath) {
			return cPath, nil
		}
		return "", &OfflineMissError{baseError: &baseError{Message: fmt.Sprintf("offline mode is enabled and %q is not in the cache", rawURL)}}
	}

	if opts.Etag != "" {
		if meta, ok := readMetadata(metaPath); ok && meta.Etag == opts.Etag {
			cPath := contentPath(dir, rawURL, meta.Etag)
			if fileExists(cPath) {
				return cPath, nil
			}
		}
	}

	headers := http.Header{}
	if opts.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+opts.AuthToken)
	}

	head, err := c.headProbe(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}

	if meta, ok := readMetadata(metaPath); ok && meta.Etag == head.Etag {
		cPath := contentPath(dir, rawURL, meta.Etag)
		if fileExists(cPath) {
			return cPath, nil
		}
	}

	cPath := contentPath(dir, rawURL, head.Etag)

	downloadHeaders := headers.Clone()
	c.progress.logStart(rawURL)
	bar := c.progress.spinnerFor(rawURL)
	start := time.Now()
	err = c.client.Download(ctx, head.FinalURL, cPath, downloadHeaders)
	finishSpinner(bar)
	if err != nil {
		err = classifyDownloadError(err, "", "", "")
		c.progress.logError(rawURL, err)
		os.Remove(cPath)
		os.Remove(metaPath)
		return "", err
	}
	c.progress.logDone(rawURL, time.Since(start))

	if _, err := writeMetadataAtomic(dir, cacheMetadata{Etag: head.Etag, URL: rawURL}); err != nil {
		os.Remove(cPath)
		os.Remove(metaPath)
		return "", fmt.Errorf("dataset: writing cache metadata: %w", err)
	}

	return cPath, nil
}

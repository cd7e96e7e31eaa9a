package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(hfhttp.New(nil), WithCacheDir(t.TempDir()))
	require.NoError(t, err)
	return c
}

func TestCachedDownloadIdempotent(t *testing.T) {
	var gets int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("etag", `"abc"`)
		if r.Method == http.MethodGet {
			gets++
			_, _ = w.Write([]byte("payload"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestCache(t)
	ctx := context.Background()

	p1, err := c.CachedDownload(ctx, srv.URL, CachedDownloadOptions{})
	require.NoError(t, err)

	p2, err := c.CachedDownload(ctx, srv.URL, CachedDownloadOptions{})
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, gets, "a stable etag must not trigger a second GET")
}

func TestCachedDownloadForceRedownload(t *testing.T) {
	var gets int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("etag", `"abc"`)
		if r.Method == http.MethodGet {
			gets++
			_, _ = w.Write([]byte("payload"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.CachedDownload(ctx, srv.URL, CachedDownloadOptions{})
	require.NoError(t, err)

	_, err = c.CachedDownload(ctx, srv.URL, CachedDownloadOptions{DownloadMode: ForceRedownload})
	require.NoError(t, err)

	assert.Equal(t, 2, gets)
}

func TestCachedDownloadOfflineMiss(t *testing.T) {
	c := newTestCache(t)
	_, err := c.CachedDownload(context.Background(), "https://example.com/f.parquet", CachedDownloadOptions{
		Offline: boolPtr(true),
	})
	require.Error(t, err)
	var miss *OfflineMissError
	assert.ErrorAs(t, err, &miss)
}

func TestHeadProbeStripsAuthorizationCrossOrigin(t *testing.T) {
	var sawAuthOnB bool
	b := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuthOnB = r.Header.Get("Authorization") != ""
		w.Header().Set("etag", `"xyz"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer b.Close()

	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, b.URL, http.StatusFound)
	}))
	defer a.Close()

	c := newTestCache(t)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer hf_xxx")

	result, err := c.HeadDownload(context.Background(), a.URL, headers)
	require.NoError(t, err)
	assert.True(t, result.WasRedirected)
	assert.False(t, sawAuthOnB, "Authorization must not be forwarded cross-origin")
}

func TestEncURLEncEtagLowercaseUnpadded(t *testing.T) {
	e := encURL("https://example.com/foo")
	assert.Equal(t, e, lowercase(e))
	assert.NotContains(t, e, "=")

	et := encEtag(`"abc123"`)
	assert.Equal(t, et, lowercase(et))
	assert.NotContains(t, et, "=")
}

func TestCachedDownloadClassifiesGetFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("etag", `"abc"`)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("x-error-code", "EntryNotFound")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestCache(t)
	_, err := c.CachedDownload(context.Background(), srv.URL, CachedDownloadOptions{})
	require.Error(t, err)
	var notFound *EntryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func boolPtr(b bool) *bool { return &b }

package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

func TestCacheScope(t *testing.T) {
	cases := map[string]string{
		"owner/name":      "owner--name",
		"owner/name.ext":  "owner--nameext",
		"just-a-name":     "just-a-name",
		"weird!!chars//x": "weirdchars----x",
	}
	for in, want := range cases {
		assert.Equal(t, want, CacheScope(in), in)
	}
}

func TestLocalRepositoryListAndDownload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.csv"), []byte("a,b\n1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.csv"), []byte("a,b\n3,4\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	repo, err := NewLocalRepository(dir)
	require.NoError(t, err)

	listing, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing, 2)
	assert.Contains(t, listing, "train.csv")
	assert.Contains(t, listing, "test.csv")
	assert.Nil(t, listing["train.csv"])

	path, err := repo.Download(context.Background(), "train.csv", nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	_, err = repo.Download(context.Background(), "missing.csv", nil)
	require.Error(t, err)
	var notFound *EntryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNewRemoteRepositoryRejectsBadRepoID(t *testing.T) {
	_, err := NewRemoteRepository("", hfhttp.New(nil))
	require.Error(t, err)
	var argErr *ArgumentError
	assert.ErrorAs(t, err, &argErr)

	_, err = NewRemoteRepository("no-slash", hfhttp.New(nil))
	require.Error(t, err)
	assert.ErrorAs(t, err, &argErr)
}

func TestRemoteRepositoryListAndDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.Header().Set("etag", `"tree-etag"`)
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/datasets/owner/name/tree/main":
			_, _ = w.Write([]byte(`[
				{"path":"train.csv","type":"file","oid":"aaa"},
				{"path":"README.md","type":"file","oid":"bbb"},
				{"path":"sub","type":"directory","oid":"ccc"}
			]`))
		case r.URL.Path == "/datasets/owner/name/resolve/main/train.csv":
			w.Header().Set("etag", `"aaa"`)
			_, _ = w.Write([]byte("a,b\n1,2\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	repo, err := NewRemoteRepository("owner/name", hfhttp.New(nil), WithEndpoint(srv.URL), WithRepoCacheDir(t.TempDir()))
	require.NoError(t, err)

	listing, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing, 2)
	require.Contains(t, listing, "train.csv")
	assert.Equal(t, `"aaa"`, *listing["train.csv"])

	path, err := repo.Download(context.Background(), "train.csv", listing["train.csv"])
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

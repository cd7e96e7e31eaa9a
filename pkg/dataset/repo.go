package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// LocalRepository lists and fetches files from a filesystem directory
// (spec §3's Local handle, §4.2's local list/download).
type LocalRepository struct {
	path string
}

// NewLocalRepository normalizes a filesystem path into a Repository.
func NewLocalRepository(path string) (Repository, error) {
	if path == "" {
		return nil, newArgumentError("local repository path must not be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, newArgumentError("local repository path %q: %v", path, err)
	}
	if !info.IsDir() {
		return nil, newArgumentError("local repository path %q is not a directory", path)
	}
	return &LocalRepository{path: path}, nil
}

func (*LocalRepository) sealed() {}

// List enumerates regular files in the directory, non-recursive, with a
// nil etag for every entry (spec §4.2).
func (r *LocalRepository) List(ctx context.Context) (RepoListing, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, fmt.Errorf("dataset: listing %q: %w", r.path, err)
	}
	listing := make(RepoListing, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		listing[e.Name()] = nil
	}
	return listing, nil
}

// Download verifies filename exists under the repository root and
// returns its absolute path (spec §4.2's local download).
func (r *LocalRepository) Download(ctx context.Context, filename string, etagHint *string) (string, error) {
	path := filepath.Join(r.path, filename)
	info, err := os.Stat(path)
	if err != nil {
		return "", newEntryNotFoundError(r.path, filename)
	}
	if info.IsDir() {
		return "", newEntryNotFoundError(r.path, filename)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("dataset: resolving %q: %w", path, err)
	}
	return abs, nil
}

// RemoteRepository lists and fetches files from a hub-hosted dataset
// repository over HTTP, through the Cache (spec §3's Remote handle,
// §4.2's remote list/download).
type RemoteRepository struct {
	cfg   *RemoteConfig
	cache *Cache
}

// NewRemoteRepository normalizes repoID and opts into a Repository.
// Unknown or invalid option values are rejected here as *ArgumentError,
// matching spec §4.2's normalize/fails(ArgumentError).
func NewRemoteRepository(repoID string, client hfhttp.Client, opts ...RemoteOption) (Repository, error) {
	if repoID == "" {
		return nil, newArgumentError("repository id must not be empty")
	}
	if !strings.Contains(repoID, "/") {
		return nil, newArgumentError("repository id %q must be of the form owner/name", repoID)
	}

	cfg := defaultRemoteConfig(repoID)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			return nil, err
		}
	}

	cache, err := NewCache(client, WithCacheDir(cfg.CacheDir), WithCacheLogger(cfg.Logger), WithProgress(cfg.EnableProgress))
	if err != nil {
		return nil, err
	}

	return &RemoteRepository{cfg: cfg, cache: cache}, nil
}

func (*RemoteRepository) sealed() {}

// listingURL builds <endpoint>/api/datasets/<repo_id>/tree/<revision>[/<subdir>]
// (spec §4.2, §6).
func (r *RemoteRepository) listingURL() string {
	u := fmt.Sprintf("%s/api/datasets/%s/tree/%s", r.cfg.Endpoint, r.cfg.RepoID, r.cfg.Revision)
	if r.cfg.Subdir != "" {
		u += "/" + escapeFilePath(r.cfg.Subdir)
	}
	return u
}

// resolveURL builds <endpoint>/datasets/<repo_id>/resolve/<revision>/<filename>
// with the subdir prefix re-added (spec §4.2, §6).
func (r *RemoteRepository) resolveURL(filename string) string {
	full := filename
	if r.cfg.Subdir != "" {
		full = r.cfg.Subdir + "/" + filename
	}
	return fmt.Sprintf("%s/datasets/%s/resolve/%s/%s", r.cfg.Endpoint, r.cfg.RepoID, r.cfg.Revision, escapeFilePath(full))
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Oid  string `json:"oid"`
	LFS  *struct {
		Oid string `json:"oid"`
	} `json:"lfs"`
}

// List fetches and parses the repository's file tree (spec §4.2).
func (r *RemoteRepository) List(ctx context.Context) (RepoListing, error) {
	offline := r.cfg.Offline
	path, err := r.cache.CachedDownload(ctx, r.listingURL(), CachedDownloadOptions{
		CacheScope: CacheScope(r.cfg.RepoID),
		AuthToken:  r.cfg.AuthToken,
		Offline:    &offline,
	})
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: reading listing %q: %w", path, err)
	}

	var entries []treeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, newBadConfigError(err)
	}

	listing := make(RepoListing, len(entries))
	prefix := ""
	if r.cfg.Subdir != "" {
		prefix = r.cfg.Subdir + "/"
	}
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		name := strings.TrimPrefix(e.Path, prefix)

		oid := e.Oid
		if e.LFS != nil && e.LFS.Oid != "" {
			oid = e.LFS.Oid
		}
		etag := `"` + oid + `"`
		listing[name] = &etag
	}
	return listing, nil
}

// Download fetches filename through the Cache. etagHint, if provided,
// is threaded in to enable the Cache's fast no-HEAD path (spec §4.2).
func (r *RemoteRepository) Download(ctx context.Context, filename string, etagHint *string) (string, error) {
	opts := CachedDownloadOptions{
		CacheScope:       CacheScope(r.cfg.RepoID),
		AuthToken:        r.cfg.AuthToken,
		DownloadMode:     r.cfg.DownloadMode,
		VerificationMode: r.cfg.VerificationMode,
	}
	if etagHint != nil {
		opts.Etag = *etagHint
	} else if r.cfg.Etag != "" {
		opts.Etag = r.cfg.Etag
	}
	offline := r.cfg.Offline
	opts.Offline = &offline

	return r.cache.CachedDownload(ctx, r.resolveURL(filename), opts)
}

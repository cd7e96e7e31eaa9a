package dataset

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/go-hfdataset/hfdataset/internal/logging"
)

// DownloadMode selects whether CachedDownload reuses a matching cache
// entry or forces a fresh fetch (spec §4.1).
type DownloadMode int

const (
	ReuseIfExists DownloadMode = iota
	ForceRedownload
)

// VerificationMode selects how strictly a cache hit's content file is
// trusted (spec §4.1).
type VerificationMode int

const (
	BasicChecks VerificationMode = iota
	NoChecks
)

// CacheConfig holds everything a Cache needs beyond its injected
// hfhttp.Client, built with the same functional-options style the
// teacher's HubConfig uses.
type CacheConfig struct {
	Logger         logging.Interface `validate:"required"`
	CacheDir       string            `validate:"required"`
	EnableProgress bool
}

func defaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Logger:   logging.Nop(),
		CacheDir: GetCacheDir(),
	}
}

// CacheOption configures a Cache at construction time.
type CacheOption func(*CacheConfig) error

func (c *CacheConfig) apply(opts ...CacheOption) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// WithCacheLogger sets the Cache's logger.
func WithCacheLogger(logger logging.Interface) CacheOption {
	return func(c *CacheConfig) error {
		if logger == nil {
			return errors.New("dataset: logger must not be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithCacheDir overrides the cache root directory.
func WithCacheDir(dir string) CacheOption {
	return func(c *CacheConfig) error {
		if dir == "" {
			return errors.New("dataset: cache directory must not be empty")
		}
		c.CacheDir = dir
		return nil
	}
}

// WithProgress enables a terminal spinner and progress log lines around
// each CachedDownload GET, grounded on the teacher's ProgressManager.
func WithProgress(enabled bool) CacheOption {
	return func(c *CacheConfig) error {
		c.EnableProgress = enabled
		return nil
	}
}

func (c *CacheConfig) validate() error {
	return validator.New().Struct(c)
}

// CachedDownloadOptions controls one CachedDownload call (spec §4.1).
type CachedDownloadOptions struct {
	CacheScope       string
	AuthToken        string
	Etag             string
	Offline          *bool
	DownloadMode     DownloadMode
	VerificationMode VerificationMode
}

// RemoteConfig holds the normalized options for a RemoteRepository
// (spec §3's Remote handle). The mapstructure tags let WithViper bind
// this struct the same way the teacher's HubConfig does.
type RemoteConfig struct {
	RepoID           string `mapstructure:"repo_id"`
	Revision         string `mapstructure:"revision"`
	CacheDir         string `mapstructure:"cache_dir"`
	Offline          bool   `mapstructure:"offline"`
	AuthToken        string `mapstructure:"auth_token"`
	Subdir           string `mapstructure:"subdir"`
	DownloadMode     DownloadMode
	VerificationMode VerificationMode
	Etag             string `mapstructure:"etag"`
	Endpoint         string `mapstructure:"endpoint"`
	EnableProgress   bool   `mapstructure:"enable_progress"`
	Logger           logging.Interface
}

// RemoteOption configures a RemoteRepository at construction time. Any
// option returning a non-nil error from NewRemoteRepository surfaces as
// an *ArgumentError, per spec §4.2's normalize/fails(ArgumentError).
type RemoteOption func(*RemoteConfig) error

func defaultRemoteConfig(repoID string) *RemoteConfig {
	return &RemoteConfig{
		RepoID:   repoID,
		Revision: DefaultRevision,
		CacheDir: GetCacheDir(),
		Offline:  IsOfflineMode(),
		Endpoint: DefaultEndpoint,
		Logger:   logging.Nop(),
	}
}

func WithRevision(revision string) RemoteOption {
	return func(c *RemoteConfig) error {
		if revision == "" {
			return newArgumentError("revision must not be empty")
		}
		c.Revision = revision
		return nil
	}
}

func WithRepoCacheDir(dir string) RemoteOption {
	return func(c *RemoteConfig) error {
		if dir == "" {
			return newArgumentError("cache_dir must not be empty")
		}
		c.CacheDir = dir
		return nil
	}
}

func WithRepoOffline(offline bool) RemoteOption {
	return func(c *RemoteConfig) error {
		c.Offline = offline
		return nil
	}
}

func WithAuthToken(token string) RemoteOption {
	return func(c *RemoteConfig) error {
		c.AuthToken = token
		return nil
	}
}

func WithSubdir(subdir string) RemoteOption {
	return func(c *RemoteConfig) error {
		c.Subdir = subdir
		return nil
	}
}

func WithDownloadMode(mode DownloadMode) RemoteOption {
	return func(c *RemoteConfig) error {
		c.DownloadMode = mode
		return nil
	}
}

func WithVerificationMode(mode VerificationMode) RemoteOption {
	return func(c *RemoteConfig) error {
		c.VerificationMode = mode
		return nil
	}
}

func WithRepoEtag(etag string) RemoteOption {
	return func(c *RemoteConfig) error {
		c.Etag = etag
		return nil
	}
}

func WithEndpoint(endpoint string) RemoteOption {
	return func(c *RemoteConfig) error {
		if endpoint == "" {
			return newArgumentError("endpoint must not be empty")
		}
		c.Endpoint = endpoint
		return nil
	}
}

func WithRepoLogger(logger logging.Interface) RemoteOption {
	return func(c *RemoteConfig) error {
		if logger == nil {
			return newArgumentError("logger must not be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithRepoProgress enables a terminal spinner and progress logging
// around each file the RemoteRepository's Cache fetches.
func WithRepoProgress(enabled bool) RemoteOption {
	return func(c *RemoteConfig) error {
		c.EnableProgress = enabled
		return nil
	}
}

// WithViper resolves repo_id, revision, cache_dir, auth_token, subdir,
// endpoint and offline from v, binding environment variables
// recursively first, adapted from the teacher's
// pkg/configutils.BindEnvsRecursive / WithViper.
func WithViper(v *viper.Viper) RemoteOption {
	return func(c *RemoteConfig) error {
		if err := bindEnvsRecursive(v, c, "dataset"); err != nil {
			return newArgumentError("binding envs: %v", err)
		}
		if err := v.Unmarshal(c); err != nil {
			return newArgumentError("unmarshalling config: %v", err)
		}
		return nil
	}
}

// LoadOptions controls Load/MustLoad (spec §4.4). Cache-affecting
// settings (offline mode, cache directory, auth token, revision,
// download/verification mode, etag) are not here: Load always defers
// to whatever Repository it was given, and those settings are fixed at
// that Repository's construction time via RemoteOption. There is no
// per-call override of a Repository's own configuration.
type LoadOptions struct {
	Split     string
	Name      string
	Streaming bool
	BatchSize int
	NumProc   int

	Logger logging.Interface
}

// normalize fills in LoadOptions defaults (spec §4.4: batch_size
// defaults to 1000, num_proc defaults to 1) and rejects invalid values.
func (o LoadOptions) normalize() (LoadOptions, error) {
	if o.BatchSize < 0 {
		return o, newArgumentError("batch_size must be positive, got %d", o.BatchSize)
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.NumProc < 0 {
		return o, newArgumentError("num_proc must be positive, got %d", o.NumProc)
	}
	if o.NumProc == 0 {
		o.NumProc = DefaultNumProc
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o, nil
}

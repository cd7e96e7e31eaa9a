package dataset

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultEndpoint = "https://huggingface.co"
	DefaultRevision = "main"

	// DefaultCacheDirName is appended to the user home directory when
	// neither DATASETS_CACHE_DIR nor HF_HOME is set.
	DefaultCacheDirName = ".cache/huggingface/hub"

	DefaultBatchSize = 1000
	DefaultNumProc   = 1

	// huggingfaceSubdir is the fixed directory name under cache_dir that
	// all cache entries, scoped or not, live under (spec §3).
	huggingfaceSubdir = "huggingface"
)

const (
	EnvCacheDir = "DATASETS_CACHE_DIR"
	EnvHfHome   = "HF_HOME"
	EnvOffline  = "DATASETS_OFFLINE"
	EnvHfToken  = "HF_TOKEN"
)

// RecognizedExtensions lists the tabular formats the Loader will pick up
// automatically; anything else is dropped during file selection (spec
// §4.4 step 5a).
var RecognizedExtensions = map[string]bool{
	"csv":     true,
	"jsonl":   true,
	"parquet": true,
}

// GetCacheDir resolves the cache root the same way constants.GetCacheDir
// does in the teacher, adapted to this module's own environment
// variables (spec §6).
func GetCacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	if home := os.Getenv(EnvHfHome); home != "" {
		return filepath.Join(home, "hub")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultCacheDirName
	}
	return filepath.Join(homeDir, DefaultCacheDirName)
}

// GetHfToken returns the bearer token from the environment if it looks
// like a real Hugging Face token (spec §4.6, §6: must start with "hf_").
func GetHfToken() string {
	tok := os.Getenv(EnvHfToken)
	if !isValidToken(tok) {
		return ""
	}
	return tok
}

func isValidToken(tok string) bool {
	return strings.HasPrefix(tok, "hf_")
}

// IsOfflineMode reads the process-wide offline predicate (spec §4.1.4).
func IsOfflineMode() bool {
	v := os.Getenv(EnvOffline)
	return v == "1" || v == "true"
}

// extensionOf returns the lowercased suffix of filename without the dot,
// or "" if there is none.
func extensionOf(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

package dataset

import (
	"context"
	"regexp"
	"strings"
)

// RepoListing maps a filename relative to a repository's logical root
// (or subdir) to its etag. A nil value means "no etag" — always true for
// local repositories, per spec §3.
type RepoListing map[string]*string

// Repository is a sealed interface: the only implementations are
// *LocalRepository and *RemoteRepository, constructed through
// NewLocalRepository / NewRemoteRepository. This is the sum-type
// re-architecture the Design Notes call for in place of the source's
// tagged tuple.
type Repository interface {
	// List enumerates the files visible in this repository (spec §4.2).
	List(ctx context.Context) (RepoListing, error)
	// Download fetches filename and returns a local path to its bytes.
	// etagHint, if non-nil, is threaded through to the Cache to enable
	// the fast no-HEAD path.
	Download(ctx context.Context, filename string, etagHint *string) (string, error)

	// sealed is unexported so no package outside dataset can implement
	// Repository.
	sealed()
}

var nonWordOrDash = regexp.MustCompile(`[^\w-]`)

// CacheScope derives the per-repo cache directory namespace from a
// repository id (spec §3): slashes become "--", everything else that
// isn't a word character or dash is stripped.
func CacheScope(repoID string) string {
	scope := strings.ReplaceAll(repoID, "/", "--")
	return nonWordOrDash.ReplaceAllString(scope, "")
}

// Feature is one column/field description in a DatasetInfo.
type Feature struct {
	Name  string
	Dtype string
}

// SplitInfo describes one named partition of a dataset.
type SplitInfo struct {
	Name        string
	NumExamples int
}

// DatasetInfo is an immutable record parsed from the hub's dataset-info
// endpoint (spec §3, §4.6).
type DatasetInfo struct {
	ConfigName  string
	Features    []Feature
	Splits      []SplitInfo
	Description string
	Homepage    string
	License     string
	Citation    string
}

// FromMap builds a DatasetInfo from a raw JSON-decoded map, the shape
// the hub's cardData.dataset_info entries take. Missing fields become
// zero values, matching spec §4.6's "missing fields become null".
func FromMap(m map[string]interface{}) DatasetInfo {
	info := DatasetInfo{
		ConfigName:  stringField(m, "config_name"),
		Description: stringField(m, "description"),
		Homepage:    stringField(m, "homepage"),
		License:     stringField(m, "license"),
		Citation:    stringField(m, "citation"),
	}

	if raw, ok := m["features"].([]interface{}); ok {
		for _, f := range raw {
			fm, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			info.Features = append(info.Features, Feature{
				Name:  stringField(fm, "name"),
				Dtype: stringField(fm, "dtype"),
			})
		}
	}

	if raw, ok := m["splits"].([]interface{}); ok {
		for _, s := range raw {
			sm, ok := s.(map[string]interface{})
			if !ok {
				continue
			}
			info.Splits = append(info.Splits, SplitInfo{
				Name:        stringField(sm, "name"),
				NumExamples: intField(sm, "num_examples"),
			})
		}
	}

	return info
}

// ToMap is the inverse of FromMap; round-tripping through both
// preserves every key recognized in spec §3 (Testable Properties §8).
func (d DatasetInfo) ToMap() map[string]interface{} {
	features := make([]interface{}, len(d.Features))
	for i, f := range d.Features {
		features[i] = map[string]interface{}{"name": f.Name, "dtype": f.Dtype}
	}
	splits := make([]interface{}, len(d.Splits))
	for i, s := range d.Splits {
		splits[i] = map[string]interface{}{"name": s.Name, "num_examples": s.NumExamples}
	}
	return map[string]interface{}{
		"config_name": d.ConfigName,
		"features":    features,
		"splits":      splits,
		"description": d.Description,
		"homepage":    d.Homepage,
		"license":     d.License,
		"citation":    d.Citation,
	}
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

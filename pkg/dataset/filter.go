package dataset

import (
	"path/filepath"
	"strings"
)

// ByConfig keeps entries whose filename contains configName as a
// substring (matches conventions like sst2/train.parquet). A blank
// configName is the identity filter (spec §4.3).
func ByConfig(listing RepoListing, configName string) RepoListing {
	if configName == "" {
		return listing
	}
	out := make(RepoListing, len(listing))
	for name, etag := range listing {
		if strings.Contains(name, configName) {
			out[name] = etag
		}
	}
	return out
}

// BySplit keeps entries whose basename, without its extension, contains
// split as a substring (matches train.csv, train-00000.parquet,
// validation.jsonl). A blank split is the identity filter (spec §4.3).
func BySplit(listing RepoListing, split string) RepoListing {
	if split == "" {
		return listing
	}
	out := make(RepoListing, len(listing))
	for name, etag := range listing {
		base := filepath.Base(name)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if strings.Contains(base, split) {
			out[name] = etag
		}
	}
	return out
}

// ByConfigAndSplit composes ByConfig and BySplit. The composition is
// commutative for any inputs (Testable Properties §8's filter
// orthogonality), since each filter only ever removes entries
// independently of the other's criterion.
func ByConfigAndSplit(listing RepoListing, configName, split string) RepoListing {
	return BySplit(ByConfig(listing, configName), split)
}

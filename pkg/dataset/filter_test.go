package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func etagPtr(s string) *string { return &s }

func sampleListing() RepoListing {
	return RepoListing{
		"sst2/train.parquet":      etagPtr("1"),
		"sst2/validation.parquet": etagPtr("2"),
		"mrpc/train.parquet":      etagPtr("3"),
		"train-00000.csv":         etagPtr("4"),
		"validation.jsonl":        etagPtr("5"),
	}
}

func TestByConfig(t *testing.T) {
	out := ByConfig(sampleListing(), "sst2")
	assert.Len(t, out, 2)
	assert.Contains(t, out, "sst2/train.parquet")
	assert.Contains(t, out, "sst2/validation.parquet")
}

func TestByConfigIdentityWhenEmpty(t *testing.T) {
	in := sampleListing()
	assert.Equal(t, in, ByConfig(in, ""))
}

func TestBySplit(t *testing.T) {
	out := BySplit(sampleListing(), "train")
	assert.Len(t, out, 3)
	assert.Contains(t, out, "sst2/train.parquet")
	assert.Contains(t, out, "mrpc/train.parquet")
	assert.Contains(t, out, "train-00000.csv")
}

func TestBySplitIdentityWhenEmpty(t *testing.T) {
	in := sampleListing()
	assert.Equal(t, in, BySplit(in, ""))
}

func TestFilterOrthogonality(t *testing.T) {
	listing := sampleListing()
	viaComposition := ByConfigAndSplit(listing, "sst2", "train")
	viaSequential := BySplit(ByConfig(listing, "sst2"), "train")
	assert.Equal(t, viaSequential, viaComposition)
	assert.Len(t, viaComposition, 1)
	assert.Contains(t, viaComposition, "sst2/train.parquet")
}

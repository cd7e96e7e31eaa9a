package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetInfoRoundTrip(t *testing.T) {
	info := DatasetInfo{
		ConfigName:  "sst2",
		Features:    []Feature{{Name: "text", Dtype: "string"}, {Name: "label", Dtype: "int64"}},
		Splits:      []SplitInfo{{Name: "train", NumExamples: 67349}, {Name: "validation", NumExamples: 872}},
		Description: "The Stanford Sentiment Treebank",
		Homepage:    "https://nlp.stanford.edu/sentiment/",
		License:     "unknown",
		Citation:    "@inproceedings{...}",
	}

	roundTripped := FromMap(info.ToMap())
	assert.Equal(t, info, roundTripped)
}

func TestDatasetInfoFromMapMissingFields(t *testing.T) {
	info := FromMap(map[string]interface{}{"config_name": "default"})
	assert.Equal(t, "default", info.ConfigName)
	assert.Empty(t, info.Features)
	assert.Empty(t, info.Splits)
	assert.Empty(t, info.Description)
}

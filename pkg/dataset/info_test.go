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

const sampleDatasetInfoJSON = `{
	"id": "owner/glue",
	"cardData": {
		"dataset_info": [
			{"config_name": "sst2", "splits": [{"name": "train", "num_examples": 67349}, {"name": "validation", "num_examples": 872}]},
			{"config_name": "mrpc", "splits": [{"name": "train", "num_examples": 3668}, {"name": "validation", "num_examples": 872}]}
		]
	}
}`

func TestGetDatasetInfosArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDatasetInfoJSON))
	}))
	defer srv.Close()

	infos, err := GetDatasetInfos(context.Background(), hfhttp.New(nil), "owner/glue", InfoOptions{Endpoint: srv.URL})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "sst2", infos[0].ConfigName)
}

func TestGetDatasetInfosSingleObjectShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cardData":{"dataset_info":{"config_name":"default","splits":[{"name":"train","num_examples":100}]}}}`))
	}))
	defer srv.Close()

	infos, err := GetDatasetInfos(context.Background(), hfhttp.New(nil), "owner/name", InfoOptions{Endpoint: srv.URL})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "default", infos[0].ConfigName)
}

func TestGetDatasetSplitNamesDeduplicatesPreservingOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDatasetInfoJSON))
	}))
	defer srv.Close()

	names, err := GetDatasetSplitNames(context.Background(), hfhttp.New(nil), "owner/glue", InfoOptions{Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []string{"train", "validation"}, names)
}

func TestGetDatasetConfigNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDatasetInfoJSON))
	}))
	defer srv.Close()

	names, err := GetDatasetConfigNames(context.Background(), hfhttp.New(nil), "owner/glue", InfoOptions{Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []string{"sst2", "mrpc"}, names)
}

func TestInfoOptionsTokenMustStartWithHfPrefix(t *testing.T) {
	opts := InfoOptions{Token: "not-a-real-token"}
	assert.Empty(t, opts.resolveToken())

	opts = InfoOptions{Token: "hf_abc123"}
	assert.Equal(t, "hf_abc123", opts.resolveToken())
}

func TestGetDatasetInfoSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := GetDatasetInfo(context.Background(), hfhttp.New(nil), "owner/name", InfoOptions{Endpoint: srv.URL, Token: "hf_xxx"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer hf_xxx", gotAuth)
}

package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// InfoOptions controls the Info operations (spec §4.6).
type InfoOptions struct {
	Token    string
	Endpoint string
}

func (o InfoOptions) resolveToken() string {
	if isValidToken(o.Token) {
		return o.Token
	}
	return GetHfToken()
}

func (o InfoOptions) resolveEndpoint() string {
	if o.Endpoint != "" {
		return o.Endpoint
	}
	return DefaultEndpoint
}

func infoURL(endpoint, repoID string) string {
	return fmt.Sprintf("%s/api/datasets/%s", endpoint, repoID)
}

// GetDatasetInfo fetches the hub's raw dataset-info JSON for repoID
// (spec §4.6).
func GetDatasetInfo(ctx context.Context, client hfhttp.Client, repoID string, opts InfoOptions) (map[string]interface{}, error) {
	headers := http.Header{}
	if tok := opts.resolveToken(); tok != "" {
		headers.Set("Authorization", "Bearer "+tok)
	}

	resp, err := client.Do(ctx, &hfhttp.Request{
		Method:          http.MethodGet,
		URL:             infoURL(opts.resolveEndpoint(), repoID),
		Headers:         headers,
		FollowRedirects: true,
	})
	if err != nil {
		return nil, newNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyHTTPError(resp, repoID, "", "")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, newBadConfigError(err)
	}
	return raw, nil
}

// GetDatasetInfos fetches and parses cardData.dataset_info into
// records. The hub serves this field as either a single object or an
// array; both shapes are accepted (spec §4.6).
func GetDatasetInfos(ctx context.Context, client hfhttp.Client, repoID string, opts InfoOptions) ([]DatasetInfo, error) {
	raw, err := GetDatasetInfo(ctx, client, repoID, opts)
	if err != nil {
		return nil, err
	}

	cardData, _ := raw["cardData"].(map[string]interface{})
	if cardData == nil {
		return nil, nil
	}
	field := cardData["dataset_info"]

	switch v := field.(type) {
	case []interface{}:
		infos := make([]DatasetInfo, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			infos = append(infos, FromMap(m))
		}
		return infos, nil
	case map[string]interface{}:
		return []DatasetInfo{FromMap(v)}, nil
	default:
		return nil, nil
	}
}

// GetDatasetSplitNames flattens splits[*].name across all infos,
// deduplicated preserving first-seen order (spec §4.6).
func GetDatasetSplitNames(ctx context.Context, client hfhttp.Client, repoID string, opts InfoOptions) ([]string, error) {
	infos, err := GetDatasetInfos(ctx, client, repoID, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, info := range infos {
		for _, split := range info.Splits {
			if seen[split.Name] {
				continue
			}
			seen[split.Name] = true
			names = append(names, split.Name)
		}
	}
	return names, nil
}

// GetDatasetConfigNames returns each info's config_name, deduplicated
// preserving first-seen order (spec §4.6).
func GetDatasetConfigNames(ctx context.Context, client hfhttp.Client, repoID string, opts InfoOptions) ([]string, error) {
	infos, err := GetDatasetInfos(ctx, client, repoID, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, info := range infos {
		if info.ConfigName == "" || seen[info.ConfigName] {
			continue
		}
		seen[info.ConfigName] = true
		names = append(names, info.ConfigName)
	}
	return names, nil
}

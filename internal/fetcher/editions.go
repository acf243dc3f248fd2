package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
)

// EditionInfo is the provider's per-edition listing metadata.
type EditionInfo struct {
	Name       string `json:"name"`
	Book       string `json:"book"`
	Author     string `json:"author"`
	Language   string `json:"language"`
	HasSection bool   `json:"has_sections"`
	Direction  string `json:"direction"`
	Source     string `json:"source"`
	Comments   string `json:"comments"`
	Link       string `json:"link"`
	LinkMin    string `json:"linkmin"`
}

// ListEditions fetches {BaseURL}/editions.json and returns the set of edition
// ids the provider advertises. The listing groups editions per book:
//
//	{ "bukhari": { "name": "...", "collection": [ {"name": "eng-bukhari", ...}, ... ] }, ... }
//
// Flat listings keyed by edition id are accepted too.
func (f *HTTPFetcher) ListEditions(ctx context.Context) (map[string]EditionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/editions.json", nil)
	if err != nil {
		return nil, fmt.Errorf("editions: build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("editions: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("editions: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("editions: status %d: %s", resp.StatusCode, string(body))
	}
	return parseListing(body)
}

func parseListing(body []byte) (map[string]EditionInfo, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("editions: decode: %w", err)
	}

	out := make(map[string]EditionInfo)
	for key, raw := range top {
		var grouped struct {
			Collection []EditionInfo `json:"collection"`
		}
		if err := json.Unmarshal(raw, &grouped); err == nil && len(grouped.Collection) > 0 {
			for _, ed := range grouped.Collection {
				if ed.Name != "" {
					out[ed.Name] = ed
				}
			}
			continue
		}
		var flat EditionInfo
		if err := json.Unmarshal(raw, &flat); err == nil {
			if flat.Name == "" {
				flat.Name = key
			}
			out[key] = flat
		}
	}
	return out, nil
}

// Available turns a listing into the set form the resolver expects.
func Available(listing map[string]EditionInfo) map[string]bool {
	out := make(map[string]bool, len(listing))
	for id := range listing {
		out[id] = true
	}
	return out
}

// SortedIDs returns the listing's edition ids in lexical order.
func SortedIDs(listing map[string]EditionInfo) []string {
	ids := make([]string, 0, len(listing))
	for id := range listing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

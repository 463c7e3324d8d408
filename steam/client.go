// Package steam proxies the Steam store search so browsers never hit the
// Steam API directly (it does not send CORS headers).
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const defaultBaseURL = "https://store.steampowered.com"

// Item is the normalized search hit the frontend consumes when importing a
// game from Steam.
type Item struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	SteamID   int      `json:"steam_id"`
	CoverURL  string   `json:"cover_url"`
	Platforms []string `json:"platforms"`
}

type storesearchResponse struct {
	Items []struct {
		ID        int             `json:"id"`
		Name      string          `json:"name"`
		TinyImage string          `json:"tiny_image"`
		Platforms map[string]bool `json:"platforms"`
	} `json:"items"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL exists for tests pointing the client at a local server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Search queries the storesearch endpoint. An empty query returns an empty
// slice without a network call.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	if query == "" {
		return []Item{}, nil
	}

	endpoint := fmt.Sprintf("%s/api/storesearch/?term=%s&l=english&cc=US", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build steam search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam search returned status %d", resp.StatusCode)
	}

	var payload storesearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode steam search response: %w", err)
	}

	items := make([]Item, 0, len(payload.Items))
	for _, raw := range payload.Items {
		item := Item{
			ID:       raw.ID,
			Title:    raw.Name,
			SteamID:  raw.ID,
			CoverURL: raw.TinyImage,
		}
		if item.CoverURL == "" {
			item.CoverURL = fmt.Sprintf("https://cdn.akamai.steamstatic.com/steam/apps/%d/header.jpg", raw.ID)
		}
		for platform, available := range raw.Platforms {
			if available {
				item.Platforms = append(item.Platforms, platform)
			}
		}
		if len(item.Platforms) == 0 {
			item.Platforms = []string{"PC"}
		}
		sort.Strings(item.Platforms)
		items = append(items, item)
	}
	return items, nil
}

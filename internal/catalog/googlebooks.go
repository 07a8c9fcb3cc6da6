// Package catalog queries the external book catalog (Google Books
// volumes API) and normalizes its loosely-shaped responses into structs
// downstream consumers can use without nil checks.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MaxResults is the fixed result cap forwarded to the catalog.
const MaxResults = 20

// Volume is one normalized catalog search result. VolumeInfo and its
// ImageLinks are always present, never nil.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors,omitempty"`
	Description   string     `json:"description,omitempty"`
	ImageLinks    ImageLinks `json:"imageLinks"`
	PageCount     int        `json:"pageCount,omitempty"`
	PublishedDate string     `json:"publishedDate,omitempty"`
	Publisher     string     `json:"publisher,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	Language      string     `json:"language,omitempty"`
	InfoLink      string     `json:"infoLink,omitempty"`
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail,omitempty"`
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
}

// Client fetches book data from the Google Books volumes API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a catalog client. baseURL should point at the volumes
// API root (e.g. "https://www.googleapis.com/books/v1"); apiKey may be
// empty for unauthenticated quota.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		rateLimiter: newRateLimiter(200 * time.Millisecond),
	}
}

// Search forwards a free-text query to the catalog and returns at most
// MaxResults normalized volumes. Every returned item has a VolumeInfo and
// ImageLinks value, and thumbnail URLs are rewritten to https.
func (c *Client) Search(ctx context.Context, query string) ([]Volume, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	c.rateLimiter.wait()

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d",
		c.baseURL, url.QueryEscape(query), MaxResults)
	if c.apiKey != "" {
		searchURL += "&key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BookTracker/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	volumes := make([]Volume, 0, len(result.Items))
	for _, item := range result.Items {
		volumes = append(volumes, normalizeVolume(item))
	}
	return volumes, nil
}

// normalizeVolume fills in the pieces the catalog omits so consumers never
// branch on missing keys, and upgrades image URLs to secure transport.
func normalizeVolume(item rawVolume) Volume {
	v := Volume{ID: item.ID}
	if info := item.VolumeInfo; info != nil {
		v.VolumeInfo = VolumeInfo{
			Title:         info.Title,
			Authors:       info.Authors,
			Description:   info.Description,
			PageCount:     info.PageCount,
			PublishedDate: info.PublishedDate,
			Publisher:     info.Publisher,
			Categories:    info.Categories,
			Language:      info.Language,
			InfoLink:      info.InfoLink,
		}
		if info.ImageLinks != nil {
			v.VolumeInfo.ImageLinks = *info.ImageLinks
		}
	}

	v.VolumeInfo.ImageLinks.Thumbnail = SecureURL(v.VolumeInfo.ImageLinks.Thumbnail)
	v.VolumeInfo.ImageLinks.SmallThumbnail = SecureURL(v.VolumeInfo.ImageLinks.SmallThumbnail)

	return v
}

// SecureURL rewrites an http URL to https. Empty strings pass through.
func SecureURL(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + u[len("http:"):]
	}
	return u
}

// Wire types with optional nesting, as the catalog actually sends them.

type volumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string         `json:"id"`
	VolumeInfo *rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Description   string      `json:"description"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
	PageCount     int         `json:"pageCount"`
	PublishedDate string      `json:"publishedDate"`
	Publisher     string      `json:"publisher"`
	Categories    []string    `json:"categories"`
	Language      string      `json:"language"`
	InfoLink      string      `json:"infoLink"`
}

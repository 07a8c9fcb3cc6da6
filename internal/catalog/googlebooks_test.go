package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNormalizesVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalItems": 3,
			"items": [
				{
					"id": "vol-1",
					"volumeInfo": {
						"title": "The Go Programming Language",
						"authors": ["Alan Donovan", "Brian Kernighan"],
						"pageCount": 380,
						"imageLinks": {
							"thumbnail": "http://books.google.com/covers/vol-1.jpg"
						}
					}
				},
				{
					"id": "vol-2",
					"volumeInfo": {
						"title": "No Cover Book"
					}
				},
				{
					"id": "vol-3"
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	volumes, err := client.Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, volumes, 3)

	assert.Equal(t, "vol-1", volumes[0].ID)
	assert.Equal(t, "The Go Programming Language", volumes[0].VolumeInfo.Title)
	assert.Equal(t, "https://books.google.com/covers/vol-1.jpg", volumes[0].VolumeInfo.ImageLinks.Thumbnail)

	// Absent imageLinks and volumeInfo come back as zero values, not nils.
	assert.Equal(t, "No Cover Book", volumes[1].VolumeInfo.Title)
	assert.Empty(t, volumes[1].VolumeInfo.ImageLinks.Thumbnail)
	assert.Equal(t, "vol-3", volumes[2].ID)
	assert.Empty(t, volumes[2].VolumeInfo.Title)
}

func TestSearchSendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key")
	volumes, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, volumes)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient("https://example.invalid", "")
	_, err := client.Search(context.Background(), "")
	assert.Error(t, err)
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Search(context.Background(), "golang")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", SecureURL("http://example.com/a.jpg"))
	assert.Equal(t, "https://example.com/a.jpg", SecureURL("https://example.com/a.jpg"))
	assert.Equal(t, "", SecureURL(""))
}

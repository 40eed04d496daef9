package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const oembedEndpoint = "https://www.youtube.com/oembed"

// MetadataClient looks up video metadata via the oEmbed endpoint, which
// returns the platform title without downloading any media.
type MetadataClient struct {
	httpClient *http.Client
}

// NewMetadataClient builds a MetadataClient.
func NewMetadataClient() *MetadataClient {
	return &MetadataClient{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// Title returns the platform-provided title for a video URL.
func (c *MetadataClient) Title(ctx context.Context, videoURL string) (string, error) {
	query := url.Values{}
	query.Set("url", videoURL)
	query.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create metadata request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch metadata: status %d", resp.StatusCode)
	}
	var decoded struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode metadata response: %w", err)
	}
	if decoded.Title == "" {
		return "", errors.New("no title in metadata response")
	}
	return decoded.Title, nil
}

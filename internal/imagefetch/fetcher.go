package imagefetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxImageBytes caps downloads so a hostile URL cannot balloon memory.
const maxImageBytes = 20 << 20 // 20 MiB

// Fetcher downloads user-supplied image URLs for analysis.
type Fetcher struct {
	httpClient *resty.Client
}

// New creates a fetcher with a default HTTP client.
func New() *Fetcher {
	client := resty.New().
		SetHeader("Accept", "image/*").
		SetHeader("User-Agent", "lumiere-stylist/1.0")
	return &Fetcher{httpClient: client}
}

// Fetch downloads the image at rawURL. Only http(s) URLs pointing at image
// content are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported image url scheme: %q", u.Scheme)
	}

	resp, err := f.httpClient.NewRequest().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("url did not return an image (content-type %q)", contentType)
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("image fetch returned empty body")
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("image too large: %d bytes", len(body))
	}

	return body, nil
}

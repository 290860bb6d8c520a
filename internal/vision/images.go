package vision

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxImageBytes = 8 << 20 // Gemini inline-data cap is 20MB; stay well under

// ImageFetcher retrieves product/label photos and base64-encodes them.
// Data URLs pass through without a network call.
type ImageFetcher struct {
	http *http.Client
}

// NewImageFetcher creates an ImageFetcher. If hc is nil a default client
// with a 15s timeout is used.
func NewImageFetcher(hc *http.Client) *ImageFetcher {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &ImageFetcher{http: hc}
}

// FetchAll fetches the given URLs in parallel. A failed fetch is logged
// and skipped; the returned slice holds whichever images succeeded, in
// input order. Empty URLs are ignored.
func (f *ImageFetcher) FetchAll(ctx context.Context, reportID string, urls ...string) []EncodedImage {
	results := make([]*EncodedImage, len(urls))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			img, err := f.fetch(gCtx, u)
			if err != nil {
				zap.L().Warn("vision: image fetch failed",
					zap.String("report_id", reportID),
					zap.String("url", u),
					zap.Error(err),
				)
				return nil // tolerated; continue with the rest
			}
			mu.Lock()
			results[i] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var out []EncodedImage
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (f *ImageFetcher) fetch(ctx context.Context, url string) (*EncodedImage, error) {
	if strings.HasPrefix(url, "data:") {
		return decodeDataURL(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "vision: create image request")
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "vision: fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("vision: image fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, eris.Wrap(err, "vision: read image body")
	}

	mime := resp.Header.Get("Content-Type")
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	mime = strings.TrimSpace(mime)
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}

	return &EncodedImage{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(body),
	}, nil
}

// decodeDataURL splits an already-encoded data URL into mime + payload.
func decodeDataURL(url string) (*EncodedImage, error) {
	rest := strings.TrimPrefix(url, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return nil, eris.New("vision: malformed data URL")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, eris.New("vision: data URL is not base64")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "image/jpeg"
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, eris.Wrap(err, "vision: invalid base64 in data URL")
	}
	return &EncodedImage{MIMEType: mime, Data: payload}, nil
}

package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// Loader fetches web pages and reduces them to their readable text. HTML
// pages go through readability to isolate the main article content, other
// content types are returned verbatim. Fetched pages are cached by URL and
// concurrent fetches of the same URL collapse into a single request.
type Loader struct {
	client *http.Client

	cache   map[string]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

func NewLoader() *Loader {
	return &Loader{
		client: http.DefaultClient,
		cache:  make(map[string]string),
	}
}

// ArticleText fetches pageURL and returns its readable text.
func (l *Loader) ArticleText(ctx context.Context, pageURL string) (string, error) {
	l.cacheMu.RLock()
	if cached, ok := l.cache[pageURL]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(pageURL, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[pageURL]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		text, err := l.fetch(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[pageURL] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (l *Loader) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("failed to parse url: %w", err)
		}
		article, err := readability.FromReader(resp.Body, parsed)
		if err != nil {
			return "", fmt.Errorf("failed to parse html: %w", err)
		}

		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return "", fmt.Errorf("failed to render article text: %w", err)
		}

		return builder.String(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

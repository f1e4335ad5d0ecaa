// internal/extractor/page.go
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	httpclient "character-workers/internal/common/http"

	"golang.org/x/net/html"
)

var ErrFetchFailed = errors.New("PAGE_FETCH_FAILED")

// PageLoader fetches an arbitrary URL and keeps its human-readable text.
type PageLoader struct {
	http *httpclient.Client
}

func NewPageLoader(client *httpclient.Client) *PageLoader {
	return &PageLoader{http: client}
}

// ExtractGeneric returns "" without error for pages with no visible text.
func (l *PageLoader) ExtractGeneric(ctx context.Context, url string) (string, error) {
	resp, err := l.http.Get(ctx, url, map[string]string{"Accept": "text/html,application/xhtml+xml"})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	text, err := extractText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", ErrFetchFailed, url, err)
	}
	return text, nil
}

// extractText joins all text nodes outside script and style with single
// spaces.
func extractText(body io.Reader) (string, error) {
	z := html.NewTokenizer(body)
	var words []string
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.Join(words, " "), nil
			}
			return "", z.Err()
		case html.StartTagToken, html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "script", "style", "noscript", "template":
				if tt == html.StartTagToken {
					skipDepth++
				} else if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth == 0 {
				words = append(words, strings.Fields(string(z.Text()))...)
			}
		}
	}
}

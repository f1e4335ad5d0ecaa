// Package extractor turns a URL into site data: a structured YC company
// record via Firecrawl, or the visible text of any page.
package extractor

import (
	"context"

	"character-workers/internal/models"
)

// Extractor routes each extraction to its backend.
type Extractor struct {
	yc   *FirecrawlClient
	page *PageLoader
}

func New(yc *FirecrawlClient, page *PageLoader) *Extractor {
	return &Extractor{yc: yc, page: page}
}

func (e *Extractor) ExtractYC(ctx context.Context, url string) (*models.YCCompanyRecord, error) {
	return e.yc.ExtractYC(ctx, url)
}

func (e *Extractor) ExtractGeneric(ctx context.Context, url string) (string, error) {
	return e.page.ExtractGeneric(ctx, url)
}

// internal/extractor/firecrawl.go
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	httpclient "character-workers/internal/common/http"
	"character-workers/internal/common/logger"
	"character-workers/internal/models"
)

const (
	DefaultFirecrawlURL = "https://api.firecrawl.dev"
	// DefaultScrapeTimeoutMs is the server-side scrape budget sent to Firecrawl.
	DefaultScrapeTimeoutMs = 120000
)

var ErrScrapeFailed = errors.New("SCRAPE_FAILED")

// ycCompanySchema asks Firecrawl's LLM extraction for the fields of a YC
// company page.
var ycCompanySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"company_name":           map[string]interface{}{"type": "string"},
		"company_small_logo_url": map[string]interface{}{"type": "string"},
		"founders": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name":        map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
	},
	"required": []string{"company_name", "company_small_logo_url"},
}

type scrapeRequest struct {
	URL             string      `json:"url"`
	Formats         []string    `json:"formats"`
	JSONOptions     jsonOptions `json:"jsonOptions"`
	OnlyMainContent bool        `json:"onlyMainContent"`
	Timeout         int         `json:"timeout"`
}

type jsonOptions struct {
	Schema map[string]interface{} `json:"schema"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		JSON *models.YCCompanyRecord `json:"json"`
	} `json:"data"`
}

// FirecrawlClient extracts YC company records through Firecrawl's scrape API.
type FirecrawlClient struct {
	http      *httpclient.Client
	baseURL   string
	apiKey    string
	timeoutMs int
	logger    logger.Logger
}

func NewFirecrawlClient(client *httpclient.Client, baseURL, apiKey string, timeoutMs int, log logger.Logger) *FirecrawlClient {
	if baseURL == "" {
		baseURL = DefaultFirecrawlURL
	}
	if timeoutMs <= 0 {
		timeoutMs = DefaultScrapeTimeoutMs
	}
	return &FirecrawlClient{
		http:      client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		timeoutMs: timeoutMs,
		logger:    log.With(map[string]interface{}{"component": "firecrawl"}),
	}
}

// ExtractYC returns nil without error when the page yields no company name.
func (c *FirecrawlClient) ExtractYC(ctx context.Context, url string) (*models.YCCompanyRecord, error) {
	req := scrapeRequest{
		URL:             url,
		Formats:         []string{"json"},
		JSONOptions:     jsonOptions{Schema: ycCompanySchema},
		OnlyMainContent: false,
		Timeout:         c.timeoutMs,
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp scrapeResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/scrape", headers, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrScrapeFailed, resp.Error)
	}

	record := resp.Data.JSON
	if record == nil || strings.TrimSpace(record.CompanyName) == "" {
		c.logger.Info("scrape returned no company", map[string]interface{}{"url": url})
		return nil, nil
	}

	record.CompanyName = strings.TrimSpace(record.CompanyName)
	c.logger.Info("company extracted", map[string]interface{}{
		"url":      url,
		"company":  record.CompanyName,
		"founders": len(record.Founders),
	})
	return record, nil
}

// Package collector implements the pipeline's source collectors: curated seed
// rules, HTML directory scrapers, and JSON imports.
//
// Collectors return what a page says, not what it means. Date resolution,
// junk filtering and classification happen downstream in the pipeline.
package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/show-finder-etl/internal/ratelimit"
)

const (
	// DefaultUserAgent identifies the pipeline to every site it contacts.
	DefaultUserAgent = "ShowFinderApp/1.0"
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second
)

// blockSelector lists the elements whose text is read line by line.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, td, dd"

// HTTPOptions configures the HTTP behavior shared by scraping collectors.
type HTTPOptions struct {
	Client    *http.Client
	UserAgent string
	Limiter   ratelimit.Limiter
}

func (o HTTPOptions) withDefaults() HTTPOptions {
	if o.Client == nil {
		o.Client = &http.Client{Timeout: DefaultTimeout}
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Limiter == nil {
		o.Limiter = ratelimit.Unlimited()
	}
	return o
}

// fetchDocument waits for the limiter, then GETs pageURL and parses it as HTML.
func fetchDocument(ctx context.Context, opts HTTPOptions, pageURL string) (*goquery.Document, error) {
	if err := opts.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// firstMatch returns the first selector that matches anything in doc, falling
// back to the body.
func firstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if sel := doc.Find(s); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find("body")
}

// textLines returns the rendered text lines of the innermost block elements
// under sel, with <br> treated as a line break.
func textLines(sel *goquery.Selection) []string {
	sel.Find("br").ReplaceWithHtml("\n")

	var lines []string
	sel.Find(blockSelector).
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find(blockSelector).Length() == 0
		}).
		Each(func(_ int, s *goquery.Selection) {
			for _, line := range strings.Split(s.Text(), "\n") {
				if line = cleanText(line); line != "" {
					lines = append(lines, line)
				}
			}
		})
	return lines
}

// cleanText collapses whitespace, including non-breaking spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

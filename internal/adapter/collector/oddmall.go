package collector

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

const (
	// ODMallURL lists upcoming Oddmall vendor shows.
	ODMallURL = "https://www.oddmall.info/vendor-show-info"

	odmallVendor   = "ODMall (Oddities & Curiosities)"
	odmallFallback = "Ohio, USA"
)

// odmallParagraphRe matches "January 18, 2025: Defiance, OH".
var odmallParagraphRe = regexp.MustCompile(`^([A-Za-z]+\.?\s+\d{1,2},\s+\d{4}):\s*(.+)$`)

// ODMall scrapes the Oddmall vendor show page. Every event it emits is
// pre-classified as Horror & Oddities.
type ODMall struct {
	pageURL string
	http    HTTPOptions
}

// NewODMall creates the collector. An empty pageURL uses ODMallURL.
func NewODMall(pageURL string, opts HTTPOptions) *ODMall {
	if pageURL == "" {
		pageURL = ODMallURL
	}
	return &ODMall{pageURL: pageURL, http: opts.withDefaults()}
}

func (o *ODMall) Name() string { return "oddmall" }

// Collect fetches the page and parses each dated paragraph.
func (o *ODMall) Collect(ctx context.Context) ([]domain.RawEvent, error) {
	doc, err := fetchDocument(ctx, o.http, o.pageURL)
	if err != nil {
		return nil, err
	}

	var events []domain.RawEvent
	firstMatch(doc, ".sqs-block-content", ".sqs-block", "main, article, .content").
		Find("p").
		Each(func(_ int, p *goquery.Selection) {
			text := cleanText(p.Text())
			var linkText, href string
			if a := p.Find("a").First(); a.Length() > 0 {
				linkText = cleanText(a.Text())
				href, _ = a.Attr("href")
			}
			if e, ok := ParseOddmallParagraph(text, linkText, resolveLink(o.pageURL, href)); ok {
				events = append(events, e)
			}
		})
	return events, nil
}

// ParseOddmallParagraph parses one "Month D, YYYY: text" paragraph. When the
// paragraph has a link, a link text containing a comma is the location and the
// event is named after its city; otherwise the link text is the event name.
func ParseOddmallParagraph(text, linkText, link string) (domain.RawEvent, bool) {
	m := odmallParagraphRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return domain.RawEvent{}, false
	}
	date := strings.TrimSpace(m[1])
	rest := strings.TrimSpace(m[2])

	var name, location string
	switch {
	case linkText != "" && strings.Contains(linkText, ","):
		location = linkText
		name = "ODMall " + strings.TrimSpace(strings.Split(linkText, ",")[0])
	case linkText != "":
		name = linkText
		location = strings.Trim(strings.TrimSpace(strings.Replace(rest, linkText, "", 1)), " -–,")
		if location == "" {
			location = odmallFallback
		}
	default:
		location = rest
		name = "ODMall " + rest
	}
	if link == "" {
		link = ODMallURL
	}

	state := "Multi"
	if strings.Contains(location, "OH") {
		state = "OH"
	}

	return domain.RawEvent{
		Name:           name,
		DateString:     date,
		LocationString: location,
		Link:           link,
		VendorInfo:     odmallVendor,
		State:          state,
		Category:       domain.CategoryHorror,
	}, true
}

// resolveLink makes href absolute against the page URL.
func resolveLink(pageURL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

package collector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

const (
	// FestivalGuidesBaseURL hosts one listing page per state.
	FestivalGuidesBaseURL = "https://festivalguidesandreviews.com"

	festivalGuidesVendor = "FestivalGuides"
	minFestivalNameLen   = 8
)

// festivalGuideSlugs maps state codes to FestivalGuides page slugs.
var festivalGuideSlugs = map[string]string{
	"OH": "ohio",
	"PA": "pennsylvania",
	"NY": "new-york",
	"MI": "michigan",
	"IN": "indiana",
	"KY": "kentucky",
}

// festivalGuideLineRe matches "12/15-12/20 – Winter Wonderfest V – Hartville".
// Separators are an en or em dash, or a hyphen with spaces around it so
// hyphenated names survive.
var festivalGuideLineRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:-\d{1,2}(?:/\d{1,2})?)?)` + fieldSep + `(.+?)` + fieldSep + `(.+)$`)

const fieldSep = `(?:\s*[–—]\s*|\s+-\s+)`

// FestivalGuides scrapes one state's listing page.
type FestivalGuides struct {
	state   string
	pageURL string
	http    HTTPOptions
}

// NewFestivalGuides creates a collector for a state. It returns an error for
// states the site does not cover.
func NewFestivalGuides(state, baseURL string, opts HTTPOptions) (*FestivalGuides, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	slug, ok := festivalGuideSlugs[state]
	if !ok {
		return nil, fmt.Errorf("festivalguides: unsupported state %q", state)
	}
	if baseURL == "" {
		baseURL = FestivalGuidesBaseURL
	}
	return &FestivalGuides{
		state:   state,
		pageURL: strings.TrimRight(baseURL, "/") + "/" + slug + "/",
		http:    opts.withDefaults(),
	}, nil
}

func (f *FestivalGuides) Name() string  { return "festivalguides:" + f.state }
func (f *FestivalGuides) State() string { return f.state }

// Collect fetches the state page and parses every listing line.
func (f *FestivalGuides) Collect(ctx context.Context) ([]domain.RawEvent, error) {
	doc, err := fetchDocument(ctx, f.http, f.pageURL)
	if err != nil {
		return nil, err
	}

	var events []domain.RawEvent
	for _, line := range textLines(firstMatch(doc, ".entry-content")) {
		if e, ok := ParseFestivalGuideLine(line, f.state, f.pageURL); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// ParseFestivalGuideLine parses one "DATE – NAME – CITY" listing line. Only the
// first day of a date range is kept. Lines whose name is a stray date, carries
// a footnote asterisk, or is too short to be a real title are rejected.
func ParseFestivalGuideLine(line, state, pageURL string) (domain.RawEvent, bool) {
	m := festivalGuideLineRe.FindStringSubmatch(cleanText(line))
	if m == nil {
		return domain.RawEvent{}, false
	}
	date := strings.SplitN(m[1], "-", 2)[0]
	name := strings.TrimSpace(m[2])
	city := strings.TrimSpace(strings.ReplaceAll(m[3], "My Review", ""))

	if domain.IsJunkName(name) || len(name) < minFestivalNameLen || city == "" {
		return domain.RawEvent{}, false
	}

	return domain.RawEvent{
		Name:           name,
		DateString:     date,
		LocationString: city + ", " + state,
		Link:           pageURL,
		VendorInfo:     festivalGuidesVendor,
		State:          state,
	}, true
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var (
	// numericWithYearRe matches M/D/YYYY, M-D-YY and friends anywhere in the text.
	// Separator consistency is checked after matching.
	numericWithYearRe = regexp.MustCompile(`(\d{1,2})([/-])(\d{1,2})([/-])(\d{4}|\d{2})`)

	// numericNoYearRe matches a bare M/D, optionally followed by the end of a
	// range ("12/15-12/20", "12/15-20").
	numericNoYearRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:\s*-\s*\d{1,2}(?:[/-]\d{1,2})?)?$`)

	// textWithYearRe matches "December 15, 2025" and "Dec 15-17, 2025".
	textWithYearRe = regexp.MustCompile(`(?i)\b` + monthPattern + `\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s*[-–]\s*\d{1,2}(?:st|nd|rd|th)?)?,?\s+(\d{4})\b`)

	// textNoYearRe matches "December 15", "Dec 15-17" and "Nov 1st".
	textNoYearRe = regexp.MustCompile(`(?i)\b` + monthPattern + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ResolveDate turns free text into a calendar date at midnight in today's
// location. The first matching pattern wins; see the package documentation
// for the precedence. Year-less dates roll forward to next year when they fall
// strictly before today.
func ResolveDate(text string, today time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	today = midnight(today)
	loc := today.Location()

	if m, d, y, ok := matchNumericWithYear(text); ok {
		return makeDate(y, m, d, loc)
	}

	if parts := numericNoYearRe.FindStringSubmatch(text); parts != nil {
		m, _ := strconv.Atoi(parts[1])
		d, _ := strconv.Atoi(parts[2])
		return rollForward(time.Month(m), d, today)
	}

	if parts := textWithYearRe.FindStringSubmatch(text); parts != nil {
		d, _ := strconv.Atoi(parts[2])
		y, _ := strconv.Atoi(parts[3])
		return makeDate(y, monthFromName(parts[1]), d, loc)
	}

	if parts := textNoYearRe.FindStringSubmatch(text); parts != nil {
		d, _ := strconv.Atoi(parts[2])
		return rollForward(monthFromName(parts[1]), d, today)
	}

	return time.Time{}, false
}

// IsCurrent reports whether date falls on today or later, comparing whole days.
func IsCurrent(date, today time.Time) bool {
	if date.IsZero() {
		return false
	}
	return !midnight(date).Before(midnight(today))
}

// FormatDate renders a date as M/D/YYYY without zero padding.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// matchNumericWithYear finds the first M/D/Y occurrence that uses one separator
// consistently and is not part of a longer number or date range.
func matchNumericWithYear(text string) (time.Month, int, int, bool) {
	for _, idx := range numericWithYearRe.FindAllStringSubmatchIndex(text, -1) {
		if text[idx[4]:idx[5]] != text[idx[8]:idx[9]] {
			continue
		}
		if idx[0] > 0 && isDigit(text[idx[0]-1]) {
			continue
		}
		if idx[1] < len(text) && (isDigit(text[idx[1]]) || text[idx[1]] == '/') {
			continue
		}
		m, _ := strconv.Atoi(text[idx[2]:idx[3]])
		d, _ := strconv.Atoi(text[idx[6]:idx[7]])
		y, _ := strconv.Atoi(text[idx[10]:idx[11]])
		if y < 100 {
			y += 2000
		}
		return time.Month(m), d, y, true
	}
	return 0, 0, 0, false
}

// maxRollYears bounds the search for a year in which a year-less date exists.
// Feb 29 recurs at most eight years apart (2096 to 2104).
const maxRollYears = 8

// rollForward returns the first occurrence of month/day on or after today.
// Feb 29 skips ahead to the next leap year.
func rollForward(month time.Month, day int, today time.Time) (time.Time, bool) {
	for y := today.Year(); y <= today.Year()+maxRollYears; y++ {
		date, ok := makeDate(y, month, day, today.Location())
		if ok && !date.Before(today) {
			return date, true
		}
	}
	return time.Time{}, false
}

// makeDate builds a date, rejecting values time.Date would silently normalize
// (2/30 becoming 3/2).
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func monthFromName(name string) time.Month {
	return monthsByPrefix[strings.ToLower(name)[:3]]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

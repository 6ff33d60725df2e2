package domain

import (
	"regexp"
	"strings"
)

// dateOnlyNameRe matches names that are really a stray date cell: "11/30", "12/5*".
var dateOnlyNameRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}\*?$`)

// IsJunkName reports whether a scraped name is page furniture rather than a show.
// Asterisks mark navigation and footnote elements on the directory sites.
func IsJunkName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.Contains(name, "*") || dateOnlyNameRe.MatchString(name)
}

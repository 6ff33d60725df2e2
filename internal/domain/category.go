package domain

import (
	"regexp"
	"strings"
)

// Category is the taxonomy label shown to app users.
type Category string

const (
	CategoryWeeklyMarkets Category = "Weekly Markets"
	CategoryHorror        Category = "Horror & Oddities"
	CategoryConventions   Category = "Cons & Expos"
	CategoryParades       Category = "Parades & Carnivals"
	CategoryArtsCrafts    Category = "Arts & Crafts"
	CategoryFestivals     Category = "Festivals & Fairs"
)

// DefaultCategory is returned when no rule matches.
const DefaultCategory = CategoryFestivals

// CategoryRule pairs a label with the keywords that select it.
type CategoryRule struct {
	Label   Category
	Pattern *regexp.Regexp
}

// CategoryRules is evaluated top to bottom against lowercased text; the first
// match wins.
var CategoryRules = []CategoryRule{
	{
		Label:   CategoryWeeklyMarkets,
		Pattern: regexp.MustCompile(`\bflea\b|farmers'? market|\bweekly\b|every (sunday|saturday|friday)|swap meet|trade center|marketplace`),
	},
	{
		Label:   CategoryHorror,
		Pattern: regexp.MustCompile(`horror|haunted|oddit(y|ies)|oddmall|curiosities|paranormal|macabre|spooky|gothic|occult|ghost|halloween`),
	},
	{
		Label:   CategoryConventions,
		Pattern: regexp.MustCompile(`comic|\bcon\b|anime|cosplay|toy show|card show|gaming|collectible|convention|\bexpo\b`),
	},
	{
		Label:   CategoryParades,
		Pattern: regexp.MustCompile(`parade|carnival|homecoming|founders'? day`),
	},
	{
		Label:   CategoryArtsCrafts,
		Pattern: regexp.MustCompile(`craft|artisan|handmade|bazaar|boutique|\bmaker|art show|art market`),
	},
}

// Classify returns the label of the first rule matching name plus extra text.
// It never returns an empty category.
func Classify(name, extra string) Category {
	text := strings.ToLower(name + " " + extra)
	for _, rule := range CategoryRules {
		if rule.Pattern.MatchString(text) {
			return rule.Label
		}
	}
	return DefaultCategory
}

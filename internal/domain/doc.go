// Package domain models the show finder event records and the pure rules
// that turn loosely structured scraped rows into the canonical dataset.
//
// # Record lifecycle
//
// Every pipeline run builds its records from scratch. A record moves through
// increasingly constrained types:
//
//	RawEvent        what a collector produced: free-text name, date, location
//	NormalizedEvent date resolved to a calendar day (>= today), category set
//	LocatedEvent    coordinates resolved (pre-seeded or geocoded)
//	CanonicalEvent  flat persisted shape carrying a unique ID
//
// A record that fails a stage is dropped with a [DropReason]; drops are
// counted, never reported as errors.
//
// # Date conventions
//
// Collectors emit dates in whatever form the source page uses. [ResolveDate]
// understands, in order of precedence:
//
//	M/D/YYYY, M/D/YY     explicit year (2-digit years are 20xx)
//	M/D, M/D-M/D         no year; rolls forward to next year if already past
//	Month D[-D], YYYY    explicit year, first day of a range
//	Month D              no year; rolls forward like M/D
//
// Month names are case-insensitive and may be abbreviated to three letters.
// Days may carry an ordinal suffix ("Nov 1st"). A year-less Feb 29 resolves to
// the next leap year.
// Resolved dates are rewritten as M/D/YYYY.
//
// # Categories
//
// [Classify] walks [CategoryRules] in order and returns the first label whose
// pattern matches the name plus any extra text. Order matters: a "Weekly Flea
// & Craft Market" is a weekly market, not arts and crafts. Anything unmatched
// is "Festivals & Fairs".
//
// # Identity
//
// Two records describe the same show when their [Fingerprint] matches:
// lowercase ASCII letters and digits of the name followed by the canonical date.
// The [Deduplicator] keeps the first record seen for each fingerprint, so
// curated sources must be ordered ahead of scraped ones.
package domain

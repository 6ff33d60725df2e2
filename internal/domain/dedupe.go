package domain

import "strings"

// Fingerprint is the identity key used to spot the same show reported by
// several sources: lowercase ASCII letters and digits of the name followed by the
// canonical date. It is never persisted.
func (e NormalizedEvent) Fingerprint() string {
	return FingerprintKey(e.Name, e.DateString)
}

// FingerprintKey keeps only ASCII letters and digits of the concatenated
// parts, lowercased. Accented letters are dropped, not folded.
func FingerprintKey(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Deduplicator remembers fingerprints for the lifetime of one pipeline run.
// It is not safe for concurrent use.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator returns a Deduplicator with an empty seen set.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit records the event's fingerprint and reports whether it was new.
func (d *Deduplicator) Admit(e NormalizedEvent) bool {
	key := e.Fingerprint()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Dedupe keeps the first event for each fingerprint, preserving input order.
func (d *Deduplicator) Dedupe(events []NormalizedEvent) []NormalizedEvent {
	kept := make([]NormalizedEvent, 0, len(events))
	for _, e := range events {
		if d.Admit(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

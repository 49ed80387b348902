// Package match implements the normalized vendor-name matching used
// for vendor-history lookups.
//
// Matching is deliberately permissive: names are reduced to
// alphanumeric slugs and compared by substring containment, so
// "Super Store" matches "Super Store Inc.". The trade-off is that
// very short or very common slugs over-match; callers guard against
// that with the MinSlugLen floor rather than edit-distance scoring.
package match

import "strings"

// MinSlugLen is the minimum normalized-slug length for which fuzzy
// matching is considered safe. Shorter slugs (e.g. "A") match almost
// anything and must be rejected by callers.
const MinSlugLen = 3

// Normalize reduces a vendor name to a matching slug: lowercase with
// every character that is not an ASCII letter or digit removed.
// "Super Store Inc." -> "superstoreinc".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether two vendor names refer to the same vendor
// under slug containment: true iff one normalized slug is a substring
// of the other. Empty slugs never match.
func Matches(a, b string) bool {
	sa, sb := Normalize(a), Normalize(b)
	if sa == "" || sb == "" {
		return false
	}
	return strings.Contains(sa, sb) || strings.Contains(sb, sa)
}

package gemini

import "strings"

// stripFences removes markdown code-fence markers around a JSON reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncate bounds s to at most limit bytes. Truncation is silent and
// lossy for very long documents.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// collapseWhitespace replaces every whitespace run with a single space.
// Raw extraction output pads labels and figures with large gaps
// ("Subtotal:          $100"), which hurts figure matching.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseEdges trims surrounding whitespace from a free-form reply.
func collapseEdges(s string) string {
	return strings.TrimSpace(s)
}

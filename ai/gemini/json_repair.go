package gemini

// repairJSON fixes the common damage seen in model JSON replies:
// object keys missing their opening quote (`{ type": "x"}`). The
// scan looks for a bare word after '{' or ',' that ends in `":` and
// inserts the missing quote.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Skip whitespace after the delimiter.
		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out = append(out, in[i])
			i++
		}

		// A properly quoted key starts with '"'; anything else that
		// looks like a word may be a key with its opening quote lost.
		if i >= len(in) || !isASCIILetter(in[i]) {
			continue
		}
		start := i
		for i < len(in) && (isASCIILetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}

		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			// Bare key confirmed: re-emit it with the opening quote.
			out = append(out, '"')
			out = append(out, in[start:i]...)
		} else {
			// Not a key after all; emit what was scanned unchanged.
			out = append(out, in[start:i]...)
		}
	}

	return string(out)
}

// isASCIILetter returns true if the rune is an ASCII letter.
func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

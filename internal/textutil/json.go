package textutil

import "strings"

// StripCodeFences removes a markdown code fence wrapping a JSON document.
// Text that already starts with '{' is returned trimmed but otherwise intact,
// since a fence may legitimately appear inside a string value.
func StripCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if len(text) == 0 || text[0] == '{' {
		return text
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.LastIndex(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

// SanitizeJSON drops trailing commas before a closing brace or bracket, the
// most common defect in model-generated JSON. String literals are left alone.
func SanitizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' && nextNonSpace(s, i+1) != 0 && strings.IndexByte("}]", nextNonSpace(s, i+1)) >= 0 {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nextNonSpace(s string, from int) byte {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s[i]
	}
	return 0
}

// ExtractObject returns the span from the first '{' to the last '}' in s,
// which recovers an object surrounded by prose. ok is false when s holds no
// such span.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

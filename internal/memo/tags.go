// Package memo holds the pure building blocks of the memo file format:
// tag extraction, file naming and the front-matter record codec.
package memo

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isTagRune(r rune) bool {
	return r != '#' && !unicode.IsSpace(r)
}

// ExtractTags returns the #tag tokens of text without the leading '#',
// deduplicated in first-seen order. The result is never nil.
func ExtractTags(text string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})

	for i := 0; i < len(text); {
		if text[i] != '#' {
			i++
			continue
		}
		end := tokenEnd(text, i+1)
		if end == i+1 {
			i++
			continue
		}
		tag := text[i+1 : end]
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		i = end
	}
	return tags
}

// tokenEnd returns the byte offset just past the tag runes starting at start.
func tokenEnd(text string, start int) int {
	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTagRune(r) {
			break
		}
		i += size
	}
	return i
}

// ReplaceTag replaces every whole token #old in text with replacement.
// A token matches only when it ends where ExtractTags would end it, so
// renaming "a" leaves "#ab" alone.
func ReplaceTag(text, old, replacement string) string {
	if old == "" {
		return text
	}
	needle := "#" + old

	var b strings.Builder
	i := 0
	for {
		j := strings.Index(text[i:], needle)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(needle)
		if tokenEnd(text, end) != end {
			// longer tag sharing the prefix
			b.WriteString(text[i:end])
			i = end
			continue
		}
		b.WriteString(text[i:start])
		b.WriteString(replacement)
		i = end
	}
	if i == 0 {
		return text
	}
	b.WriteString(text[i:])
	return b.String()
}

// NormalizeTag strips a leading '#' and surrounding whitespace.
func NormalizeTag(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

// ValidTagName reports whether name can appear after '#' as a single token.
func ValidTagName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

package memo

import (
	"errors"
	"strings"
	"time"

	"memoapi/internal/model"
)

// ErrMalformed is returned by Decode for binary input (text containing NUL).
var ErrMalformed = errors.New("malformed memo file")

const (
	frontMatterDelim = "---"

	// isoLayout matches JavaScript's Date.toISOString output.
	isoLayout = "2006-01-02T15:04:05.000Z"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	isoLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders epoch milliseconds as an ISO-8601 UTC timestamp.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(isoLayout)
}

// ParseTimestamp parses the timestamp forms accepted in front matter.
func ParseTimestamp(s string) (int64, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// Encode renders m in the on-disk memo format: a front-matter block, a blank
// line, and the trimmed body.
func Encode(m model.Memo) string {
	tags := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = "#" + t
	}

	var b strings.Builder
	b.WriteString(frontMatterDelim + "\n")
	b.WriteString("id: " + m.ID + "\n")
	b.WriteString("created: " + FormatTimestamp(m.CreatedAt) + "\n")
	b.WriteString("updated: " + FormatTimestamp(m.UpdatedAt) + "\n")
	b.WriteString("tags: " + strings.Join(tags, " ") + "\n")
	if len(m.Attachments) > 0 {
		b.WriteString("attachments: " + joinList(m.Attachments) + "\n")
	}
	b.WriteString(frontMatterDelim + "\n\n")
	b.WriteString(strings.TrimSpace(m.Content))
	b.WriteString("\n")
	return b.String()
}

// CleanContent trims s and makes it storable: invalid UTF-8 sequences become
// U+FFFD and NUL bytes are dropped, so Decode returns exactly what was stored.
func CleanContent(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// Decode parses a memo file. Missing or unparseable fields fall back to
// fallbackID, fallbackCreatedAt and the current time for the update stamp.
// Tags are always derived from the body; a stored tags line is only a cache.
// Invalid UTF-8 is read leniently as U+FFFD.
func Decode(text, fallbackID string, fallbackCreatedAt int64) (model.Memo, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return model.Memo{}, ErrMalformed
	}
	text = strings.ToValidUTF8(text, "\uFFFD")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	fields, body := splitFrontMatter(text)

	m := model.Memo{
		ID:        fallbackID,
		Content:   strings.TrimSpace(body),
		CreatedAt: fallbackCreatedAt,
		UpdatedAt: now().UnixMilli(),
	}
	if v := fields["id"]; v != "" {
		m.ID = v
	}
	if ts, ok := ParseTimestamp(fields["created"]); ok {
		m.CreatedAt = ts
	}
	if ts, ok := ParseTimestamp(fields["updated"]); ok {
		m.UpdatedAt = ts
	}
	if v := fields["attachments"]; v != "" {
		m.Attachments = splitList(v)
	}
	m.Tags = ExtractTags(m.Content)
	return m, nil
}

// splitFrontMatter separates the key/value preamble from the body. Without a
// complete front-matter block the whole text is the body.
func splitFrontMatter(text string) (map[string]string, string) {
	fields := make(map[string]string)

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != frontMatterDelim {
		return fields, text
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontMatterDelim {
			closing = i
			break
		}
	}
	if closing < 0 {
		return fields, text
	}

	for _, line := range lines[1:closing] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key != "" && value != "" {
			fields[key] = value
		}
	}
	return fields, strings.Join(lines[closing+1:], "\n")
}

// joinList renders items as a comma separated list. Commas and backslashes
// inside an item are escaped with a backslash.
func joinList(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		item = strings.ReplaceAll(item, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(item, ",", `\,`)
	}
	return strings.Join(escaped, ", ")
}

// splitList is the inverse of joinList. Items are trimmed and empty ones
// dropped.
func splitList(v string) []string {
	var (
		out  []string
		item strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
		item.Reset()
	}
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\\' && i+1 < len(v):
			i++
			item.WriteByte(v[i])
		case c == ',':
			flush()
		default:
			item.WriteByte(c)
		}
	}
	flush()
	return out
}

package memo

import (
	"strings"
	"time"
)

// DefaultDateFormat is the display format used when none is configured.
const DefaultDateFormat = "YYYY-MM-DD HH:mm:ss"

// momentTokens maps display-format tokens to Go layout elements, longest first.
var momentTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"SSS", "000"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"H", "15"},
	{"h", "3"},
	{"m", "4"},
	{"s", "5"},
	{"A", "PM"},
	{"a", "pm"},
}

// GoLayout translates a moment-style display format (YYYY-MM-DD HH:mm:ss)
// into a time.Format layout. Text inside [brackets] is copied literally.
func GoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			if end := strings.IndexByte(format[i:], ']'); end > 0 {
				b.WriteString(format[i+1 : i+end])
				i += end + 1
				continue
			}
		}
		matched := false
		for _, t := range momentTokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// FormatDate renders epoch milliseconds in loc using a moment-style format.
func FormatDate(ms int64, format string, loc *time.Location) string {
	if format == "" {
		format = DefaultDateFormat
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(GoLayout(format))
}

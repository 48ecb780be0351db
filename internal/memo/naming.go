package memo

import (
	"regexp"
	"strconv"
	"time"
)

// Ext is the extension that marks a file in the notes folder as a memo file.
const Ext = ".md"

const fileNamePrefix = "memo-"

var fileNamePattern = regexp.MustCompile(`^memo-(\d+)\.md$`)

// now is replaced in tests.
var now = time.Now

// Identity is the id and creation time encoded in a memo file name.
type Identity struct {
	ID        string
	CreatedAt int64
}

// FileName returns the file name for a memo created at createdAt (epoch ms).
func FileName(createdAt int64) string {
	return fileNamePrefix + strconv.FormatInt(createdAt, 10) + Ext
}

// ParseFileName extracts the identity from a memo file name. Names that do not
// follow the memo-<millis>.md pattern get a synthetic identity stamped with the
// current time, and ok is false.
func ParseFileName(name string) (id Identity, ok bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m != nil {
		if ts, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return Identity{ID: strconv.FormatInt(ts, 10), CreatedAt: ts}, true
		}
	}
	ts := now().UnixMilli()
	return Identity{ID: strconv.FormatInt(ts, 10), CreatedAt: ts}, false
}

// ParseID converts a memo id back to its creation timestamp. Only canonical
// decimal ids (no sign, no leading zeros) are accepted, so every id maps to
// exactly one file name.
func ParseID(id string) (int64, bool) {
	ts, err := strconv.ParseInt(id, 10, 64)
	if err != nil || ts < 0 || strconv.FormatInt(ts, 10) != id {
		return 0, false
	}
	return ts, true
}

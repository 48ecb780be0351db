// Package model contains the memo domain types shared across layers.
package model

// Memo is one persisted note.
// Timestamps are Unix epoch milliseconds; ID is CreatedAt rendered as decimal text.
type Memo struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments,omitempty"`

	// FileKey is the storage key of the backing file. It is only set on memos
	// read back from storage and must not be cached across deletes.
	FileKey string `json:"-"`
}

// HasTag reports whether tag is in the memo's tag set.
func (m Memo) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortKey selects the timestamp used to order listings.
type SortKey string

const (
	SortByCreated SortKey = "createdAt"
	SortByUpdated SortKey = "updatedAt"
)

// ParseSortKey accepts the canonical keys and the legacy createTime/updateTime names.
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "createdAt", "created", "createTime":
		return SortByCreated, true
	case "updatedAt", "updated", "updateTime":
		return SortByUpdated, true
	default:
		return SortByCreated, false
	}
}

// TimeRange bounds CreatedAt inclusively. A zero bound is open.
type TimeRange struct {
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

// SearchQuery holds the optional predicates of a search. All set predicates are ANDed.
type SearchQuery struct {
	Text      string     `json:"text,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

// TagCount is a tag name with the number of memos using it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

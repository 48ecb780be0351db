package model

// BulkFailure records a memo a bulk tag rewrite could not persist.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports the outcome of a bulk tag rewrite. Writes are not atomic
// across memos: Updated lists the memos already rewritten, Failed the ones a
// caller may retry.
type BulkResult struct {
	Updated []string      `json:"updated"`
	Failed  []BulkFailure `json:"failed,omitempty"`
}

// Count returns the number of memos actually changed.
func (r BulkResult) Count() int {
	return len(r.Updated)
}

// Merge appends other's outcome to r.
func (r *BulkResult) Merge(other BulkResult) {
	r.Updated = append(r.Updated, other.Updated...)
	r.Failed = append(r.Failed, other.Failed...)
}

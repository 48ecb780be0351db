package memo

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "memo-1714558830123.md", FileName(1714558830123))
	assert.Equal(t, "memo-0.md", FileName(0))
}

func TestParseFileName_RoundTrip(t *testing.T) {
	for _, ts := range []int64{0, 1, 42, 1714558830123, 1<<62 + 7} {
		id, ok := ParseFileName(FileName(ts))
		assert.True(t, ok)
		assert.Equal(t, Identity{ID: strconv.FormatInt(ts, 10), CreatedAt: ts}, id)
	}
}

func TestParseFileName_Foreign(t *testing.T) {
	freezeNow(t, time.UnixMilli(5555))

	for _, name := range []string{
		"notes.md",
		"memo-abc.md",
		"memo-12.txt",
		"xmemo-12.md",
		"memo-99999999999999999999999.md",
	} {
		t.Run(name, func(t *testing.T) {
			id, ok := ParseFileName(name)
			assert.False(t, ok)
			assert.Equal(t, Identity{ID: "5555", CreatedAt: 5555}, id)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id   string
		want int64
		ok   bool
	}{
		{id: "1714558830123", want: 1714558830123, ok: true},
		{id: "0", want: 0, ok: true},
		{id: "007", ok: false},
		{id: "-5", ok: false},
		{id: "+5", ok: false},
		{id: "12a", ok: false},
		{id: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := ParseID(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

package memo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoapi/internal/model"
)

func freezeNow(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestEncode(t *testing.T) {
	m := model.Memo{
		ID:        "1714558830123",
		Content:   "  buy milk #todo #home \n",
		CreatedAt: 1714558830123,
		UpdatedAt: 1714558890000,
		Tags:      []string{"todo", "home"},
	}

	want := "---\n" +
		"id: 1714558830123\n" +
		"created: 2024-05-01T10:20:30.123Z\n" +
		"updated: 2024-05-01T10:21:30.000Z\n" +
		"tags: #todo #home\n" +
		"---\n\n" +
		"buy milk #todo #home\n"

	assert.Equal(t, want, Encode(m))
}

func TestEncode_NoTagsAndAttachments(t *testing.T) {
	m := model.Memo{
		ID:          "5",
		Content:     "hello",
		CreatedAt:   5,
		UpdatedAt:   5,
		Tags:        []string{},
		Attachments: []string{"img/a.png", "docs/b.pdf"},
	}

	out := Encode(m)
	assert.Contains(t, out, "tags: \n")
	assert.Contains(t, out, "attachments: img/a.png, docs/b.pdf\n")
}

func TestDecode_RoundTrip(t *testing.T) {
	records := []model.Memo{
		{ID: "1714558830123", Content: "hi #a world #b #a", CreatedAt: 1714558830123, UpdatedAt: 1714558830123},
		{ID: "0", Content: "epoch", CreatedAt: 0, UpdatedAt: 10},
		{ID: "1700000000000", Content: "time: 10:30 and a: b", CreatedAt: 1700000000000, UpdatedAt: 1700000005000},
		{ID: "1700000000001", Content: "---\nnot front matter\n---", CreatedAt: 1700000000001, UpdatedAt: 1700000000001},
		{ID: "1700000000002", Content: "with files", CreatedAt: 1700000000002, UpdatedAt: 1700000000002, Attachments: []string{"a.png"}},
	}

	for _, r := range records {
		t.Run(r.ID, func(t *testing.T) {
			r.Tags = ExtractTags(r.Content)

			got, err := Decode(Encode(r), r.ID, r.CreatedAt)
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestDecode_WithoutFrontMatter(t *testing.T) {
	freezeNow(t, time.UnixMilli(9000))

	got, err := Decode("\n just a body #x \n", "42", 42)
	require.NoError(t, err)

	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "just a body #x", got.Content)
	assert.Equal(t, int64(42), got.CreatedAt)
	assert.Equal(t, int64(9000), got.UpdatedAt)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestDecode_Fallbacks(t *testing.T) {
	freezeNow(t, time.UnixMilli(7777))

	text := "---\n" +
		"created: not a date\n" +
		"ignored line without separator\n" +
		"empty:\n" +
		"---\n\nbody"

	got, err := Decode(text, "fallback", 1234)
	require.NoError(t, err)

	assert.Equal(t, "fallback", got.ID)
	assert.Equal(t, int64(1234), got.CreatedAt)
	assert.Equal(t, int64(7777), got.UpdatedAt)
	assert.Equal(t, "body", got.Content)
}

func TestDecode_TagsComeFromBody(t *testing.T) {
	text := "---\nid: 1\ntags: #stale #old\n---\n\nfresh #new"

	got, err := Decode(text, "1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got.Tags)
}

func TestDecode_CRLFAndUnclosedFrontMatter(t *testing.T) {
	crlf := "---\r\nid: 9\r\ncreated: 2024-05-01T10:20:30.123Z\r\n---\r\n\r\nline one\r\nline two"
	got, err := Decode(crlf, "x", 0)
	require.NoError(t, err)
	assert.Equal(t, "9", got.ID)
	assert.Equal(t, int64(1714558830123), got.CreatedAt)
	assert.Equal(t, "line one\nline two", got.Content)

	unclosed := "---\nid: 9\nstill body"
	got, err = Decode(unclosed, "x", 3)
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, unclosed, got.Content)
}

func TestDecode_ValueContainingColon(t *testing.T) {
	text := "---\nid: 1\nsource: https://example.com:8080/x\n---\n\nbody"
	fields, _ := splitFrontMatter(text)
	assert.Equal(t, "https://example.com:8080/x", fields["source"])
}

func TestDecode_InvalidUTF8IsLenient(t *testing.T) {
	got, err := Decode("---\nid: 1\n---\n\ncaf\xe9 #x \xff", "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD #x \uFFFD", got.Content)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestDecode_Binary(t *testing.T) {
	_, err := Decode("\x00\x01\x02", "1", 1)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hi \n", "hi"},
		{"invalid utf8", "caf\xe9 #x", "caf\uFFFD #x"},
		{"nul", "a\x00b", "ab"},
		{"valid", "héllo #ünï", "héllo #ünï"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanContent(tt.in)
			assert.Equal(t, tt.want, got)

			m, err := Decode(Encode(model.Memo{Content: got}), "1", 1)
			require.NoError(t, err)
			assert.Equal(t, got, m.Content)
		})
	}
}

func TestAttachmentsWithCommas(t *testing.T) {
	m := model.Memo{
		ID:          "7",
		Content:     "see files",
		CreatedAt:   7,
		UpdatedAt:   7,
		Attachments: []string{"scans/a, b.png", `dir\\x.pdf`, "plain.txt"},
	}

	out := Encode(m)
	assert.Contains(t, out, `attachments: scans/a\, b.png, dir\\\\x.pdf, plain.txt`+"\n")

	got, err := Decode(out, "7", 7)
	require.NoError(t, err)
	assert.Equal(t, m.Attachments, got.Attachments)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "2024-05-01T10:20:30.123Z", want: 1714558830123, ok: true},
		{in: "2024-05-01T10:20:30Z", want: 1714558830000, ok: true},
		{in: "2024-05-01T12:20:30.123+02:00", want: 1714558830123, ok: true},
		{in: "2024-05-01", want: 1714521600000, ok: true},
		{in: "yesterday", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

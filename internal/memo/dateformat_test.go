package memo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoLayout(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "YYYY-MM-DD HH:mm:ss", want: "2006-01-02 15:04:05"},
		{format: "YY/M/D h:mm A", want: "06/1/2 3:04 PM"},
		{format: "HH:mm:ss.SSS", want: "15:04:05.000"},
		{format: "[at] HH:mm", want: "at 15:04"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, GoLayout(tt.format))
		})
	}
}

func TestFormatDate(t *testing.T) {
	ms := int64(1714558830123) // 2024-05-01T10:20:30.123Z

	assert.Equal(t, "2024-05-01 10:20:30", FormatDate(ms, "", time.UTC))
	assert.Equal(t, "01/05/2024", FormatDate(ms, "DD/MM/YYYY", time.UTC))
	assert.Equal(t, "10:20:30.123", FormatDate(ms, "HH:mm:ss.SSS", time.UTC))
}

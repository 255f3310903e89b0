package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhotoID(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want PhotoID
	}{
		{name: "zero pads to four digits", n: 0, want: "0000"},
		{name: "single digit", n: 7, want: "0007"},
		{name: "three digits", n: 123, want: "0123"},
		{name: "four digits unchanged", n: 9999, want: "9999"},
		{name: "five digits keep natural width", n: 10000, want: "10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhotoID(tt.n))
		})
	}
}

func TestPhotoIDFilename(t *testing.T) {
	assert.Equal(t, "0042.jpg", FormatPhotoID(42).Filename())
	assert.Equal(t, "10001.jpg", FormatPhotoID(10001).Filename())
}

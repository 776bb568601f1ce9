package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEventID(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "SYMPO01"},
		{9, "SYMPO09"},
		{10, "SYMPO10"},
		{99, "SYMPO99"},
		{100, "SYMPO100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEventID(tt.seq))
	}
}

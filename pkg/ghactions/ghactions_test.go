package ghactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRunning(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, IsRunning())

	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, IsRunning())
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", "100%25"},
		{"line1\nline2", "line1%0Aline2"},
		{"a\r\nb", "a%0D%0Ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escape(tt.in))
	}
}

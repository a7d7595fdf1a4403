package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		path string
		root string
		want []string
	}{
		{"under root", "/root/b/c.md", "/root", []string{"b", "c.md"}},
		{"root with trailing slash", "/root/b/c.md", "/root/", []string{"b", "c.md"}},
		{"repeated slashes", "/root//b///c.md", "/root", []string{"b", "c.md"}},
		{"no root", "/home/me/a.md", "", []string{"home", "me", "a.md"}},
		{"relative without root", "notes/a.md", "", []string{"notes", "a.md"}},
		{"filesystem root", "/a.md", "/", []string{"a.md"}},
		{"exactly root", "/root", "/root", nil},
		{"root with trailing slash only", "/root/", "/root", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.path, tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_InvalidPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		root string
	}{
		{"empty", "", "/root"},
		{"empty without root", "", ""},
		{"outside root", "/other/a.md", "/root"},
		{"shared prefix only", "/rootx/a.md", "/root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.path, tt.root)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

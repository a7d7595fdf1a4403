package docs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/docbrowse/internal/tree"
)

func TestTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"list", "---\ntags: [go, \"#tui\"]\n---\n# body\n", []string{"go", "tui"}},
		{"block list", "---\ntags:\n  - work\n  - ideas\n---\n", []string{"work", "ideas"}},
		{"string", "---\ntags: go, tui\n---\n", []string{"go", "tui"}},
		{"no tags", "---\ntitle: x\n---\n", nil},
		{"no front matter", "# just text\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tags([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByTag(t *testing.T) {
	local := newTestLocal(t, map[string]string{
		"/root/a.md":   "---\ntags: [Go]\n---\n",
		"/root/b/c.md": "---\ntags: [rust]\n---\n",
		"/root/b/d.md": "no front matter",
	})
	documents := []tree.Document{
		{Path: "/root/a.md", Name: "a.md"},
		{Path: "/root/b/c.md", Name: "c.md"},
		{Path: "/root/b/d.md", Name: "d.md"},
		{Path: "/root/gone.md", Name: "gone.md"},
	}

	got, err := FilterByTag(context.Background(), local, documents, "#go")
	assert.Error(t, err)
	assert.Equal(t, []tree.Document{{Path: "/root/a.md", Name: "a.md"}}, got)
}

package docs

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"go.uber.org/multierr"

	"github.com/kyaoi/docbrowse/internal/tree"
)

type matter struct {
	Tags any `yaml:"tags" toml:"tags" json:"tags"`
}

// Tags returns the tags declared in the front matter of content. Both a list
// and a comma separated string are accepted. Content without front matter has
// no tags.
func Tags(content []byte) ([]string, error) {
	var m matter
	if _, err := frontmatter.Parse(bytes.NewReader(content), &m); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	var tags []string
	add := func(s string) {
		s = strings.TrimPrefix(strings.TrimSpace(s), "#")
		if s != "" {
			tags = append(tags, s)
		}
	}
	switch v := m.Tags.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []any:
		for _, item := range v {
			add(fmt.Sprint(item))
		}
	case []string:
		for _, item := range v {
			add(item)
		}
	}
	return tags, nil
}

// FilterByTag keeps the documents whose front matter carries tag, compared
// case-insensitively. Documents that cannot be read are skipped and reported
// in the returned error; unparsable front matter counts as no tags.
func FilterByTag(ctx context.Context, p Provider, documents []tree.Document, tag string) ([]tree.Document, error) {
	want := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	var (
		matched []tree.Document
		errs    error
	)
	for _, doc := range documents {
		content, err := p.ReadDocument(ctx, doc.Path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		tags, err := Tags(content)
		if err != nil {
			continue
		}
		for _, t := range tags {
			if strings.ToLower(t) == want {
				matched = append(matched, doc)
				break
			}
		}
	}
	return matched, errs
}

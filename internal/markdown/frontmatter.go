package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// Document is a parsed markdown file.
type Document struct {
	Path string
	Meta map[string]any
	Body []byte
}

// ParseDocument splits YAML or TOML frontmatter from the markdown body. A
// file without frontmatter yields empty metadata.
func ParseDocument(path string, source []byte) (*Document, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter %s: %w", path, err)
	}
	return &Document{Path: path, Meta: meta, Body: bytes.TrimSpace(body)}, nil
}

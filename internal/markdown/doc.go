// Package markdown adds a goldmark rendered "markdown" field type and imports
// frontmatter documents as content records.
package markdown

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview renders a composed article document to HTML for the
// preview dialog and the preview CLI command. It does not attempt to
// reproduce the blog's theme, only the body markup.
package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render converts a full document (front matter included) to an HTML
// fragment. The front matter block is stripped, not rendered.
func (r *Renderer) Render(doc []byte) ([]byte, error) {
	body := StripFrontMatter(doc)
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// StripFrontMatter removes a leading "---" delimited YAML block. Documents
// without one are returned unchanged.
func StripFrontMatter(doc []byte) []byte {
	marker := []byte("---\n")
	if !bytes.HasPrefix(doc, marker) {
		return doc
	}
	rest := doc[len(marker):]
	end := bytes.Index(rest, marker)
	if end < 0 {
		return doc
	}
	return rest[end+len(marker):]
}

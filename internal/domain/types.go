/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strings"
	"time"
)

// This file defines the core data model for the blog manager: the persisted
// books → chapters → sections catalog and the transient article descriptor
// handed over by the UI layer.

// Catalog is the root aggregate persisted to _data/books.yml. It is loaded
// wholesale, mutated in memory and rewritten wholesale; there is no partial
// update. Book order is insertion order and must be preserved across a
// load/save round trip.
type Catalog struct {
	Books []Book `yaml:"books"`
}

// Book groups chapters under a unique name. Books are created on first
// reference and never deleted by this tool.
type Book struct {
	Name     string    `yaml:"name"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter groups sections under a free-text label unique within its book
// (e.g. "Chapter 3: Timers").
type Chapter struct {
	Name     string    `yaml:"name"`
	Sections []Section `yaml:"sections"`
}

// Section is one published article's catalog entry. Name is the composite
// display label ("1.1 GPIO Configuration") and the uniqueness key within the
// chapter. Title keeps the raw article title separate from the composite name.
type Section struct {
	Name  string `yaml:"name"`
	Slug  string `yaml:"slug,omitempty"`
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
}

// ArticleDescriptor is the validated form input for one save action. It is
// built once per action and passed by value; the core never reads live UI
// state. All string fields arrive pre-trimmed.
type ArticleDescriptor struct {
	Book         string
	Chapter      string
	SectionLabel string // short label such as "1.1", not the composite name
	Title        string
	Subtitle     string
	Date         time.Time // zero means "now" at compose time
	Tags         string    // raw comma-separated list
	Description  string
	Content      string
}

// Validate checks the mandatory fields. The UI validates before calling the
// core; the core re-checks defensively before any I/O.
func (d ArticleDescriptor) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"book", d.Book},
		{"chapter", d.Chapter},
		{"section", d.SectionLabel},
		{"title", d.Title},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// SplitTags returns the individual tags from the raw comma-separated string,
// trimmed and with empties dropped. An empty result means the caller should
// fall back to the default category.
func (d ArticleDescriptor) SplitTags() []string {
	var out []string
	for _, t := range strings.Split(d.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SaveResult reports where one save action landed.
type SaveResult struct {
	ContentPath      string // generated Markdown file
	CatalogPath      string // catalog file that was rewritten
	CatalogEntryPath string // "book / chapter / section name" of the upserted entry
	Created          bool   // false when an existing section was updated in place
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose derives an article's identifiers (slug, url, filename,
// composite section name) and renders the Markdown document with its YAML
// front matter. Everything here is a pure function of the descriptor, apart
// from reading the clock when the descriptor carries no date.
package compose

import (
	"fmt"
	"strings"
	"time"

	"blogmanager/internal/domain"
	"blogmanager/internal/slug"
)

const frontMatterMarker = "---"

// Composer holds the site-level constants that flow into every document.
// Now is swappable for tests.
type Composer struct {
	Author          string
	DefaultCategory string
	AlwaysScaffold  bool // emit the body scaffold even when content was supplied
	Now             func() time.Time
}

func New(author, defaultCategory string, alwaysScaffold bool) *Composer {
	return &Composer{
		Author:          author,
		DefaultCategory: defaultCategory,
		AlwaysScaffold:  alwaysScaffold,
		Now:             time.Now,
	}
}

// Document is one rendered article file, ready for the posts directory.
type Document struct {
	Filename string // YYYY-MM-DD-<slug>.md
	URL      string // /YYYY/MM/DD/<slug>/
	Body     []byte // front matter + Markdown body
}

// Compose derives the catalog entry and the content document for one
// descriptor. The section entry's Name is the composite "<label> <title>"
// string; its equality is what decides update-vs-append in the catalog
// upsert, so it must be derived identically on every save.
func (c *Composer) Compose(d domain.ArticleDescriptor) (domain.Section, Document) {
	date := d.Date
	if date.IsZero() {
		date = c.Now()
	}

	sl := slug.Slug(d.Title)
	datePath := date.Format("2006/01/02")
	url := "/" + datePath + "/" + sl + "/"
	name := d.SectionLabel + " " + d.Title

	entry := domain.Section{
		Name:  name,
		Slug:  sl,
		URL:   url,
		Title: d.Title,
	}
	doc := Document{
		Filename: date.Format("2006-01-02") + "-" + sl + ".md",
		URL:      url,
		Body:     c.render(d, date),
	}
	return entry, doc
}

func (c *Composer) render(d domain.ArticleDescriptor, date time.Time) []byte {
	var b strings.Builder
	b.Grow(1024)

	// Front matter keys are written by hand in a fixed order; yaml.Marshal
	// cannot reproduce the selective quoting and the bulleted tag sub-list.
	b.WriteString(frontMatterMarker + "\n")
	b.WriteString("layout: book\n")
	fmt.Fprintf(&b, "title: %q\n", d.Title)
	if d.Subtitle != "" {
		fmt.Fprintf(&b, "subtitle: %s\n", d.Subtitle)
	}
	fmt.Fprintf(&b, "date: %s\n", date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "author: %s\n", c.Author)
	fmt.Fprintf(&b, "book: %q\n", d.Book)
	fmt.Fprintf(&b, "chapter: %q\n", d.Chapter)
	fmt.Fprintf(&b, "section: %q\n", d.SectionLabel)
	b.WriteString("tags:\n")
	tags := d.SplitTags()
	if len(tags) == 0 {
		tags = []string{c.DefaultCategory}
	}
	for _, t := range tags {
		fmt.Fprintf(&b, "    - %s\n", t)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", d.Description)
	}
	b.WriteString("mathjax: true\n")
	b.WriteString("catalog: true\n")
	b.WriteString(frontMatterMarker + "\n\n")

	if d.Content != "" && !c.AlwaysScaffold {
		b.WriteString(d.Content)
		b.WriteString("\n")
	} else {
		b.WriteString(scaffold)
	}
	return []byte(b.String())
}

// scaffold is the fixed body skeleton for an article the author has not
// written yet, numbered the way the published series is structured.
const scaffold = `## 1. Introduction

## 2. Preparation

## 3. Implementation Steps

## 4. Code

` + "```c\n\n```" + `

## 5. Verification

## 6. Summary
`

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import "blogmanager/internal/domain"

// Upsert merges one article entry into the catalog in place and reports
// whether a new section was appended (as opposed to updating an existing
// one). Books and chapters are matched by exact name and created at the tail
// of their parent list when absent; existing siblings are never reordered.
// The catalog is append/update-only: there is no delete, rename or reorder.
func Upsert(cat *domain.Catalog, bookName, chapterName string, entry domain.Section) bool {
	var book *domain.Book
	for i := range cat.Books {
		if cat.Books[i].Name == bookName {
			book = &cat.Books[i]
			break
		}
	}
	if book == nil {
		cat.Books = append(cat.Books, domain.Book{Name: bookName, Chapters: []domain.Chapter{}})
		book = &cat.Books[len(cat.Books)-1]
	}

	var chapter *domain.Chapter
	for i := range book.Chapters {
		if book.Chapters[i].Name == chapterName {
			chapter = &book.Chapters[i]
			break
		}
	}
	if chapter == nil {
		book.Chapters = append(book.Chapters, domain.Chapter{Name: chapterName, Sections: []domain.Section{}})
		chapter = &book.Chapters[len(book.Chapters)-1]
	}

	for i := range chapter.Sections {
		if chapter.Sections[i].Name != entry.Name {
			continue
		}
		// Update in place; blank incoming fields leave the stored value alone.
		s := &chapter.Sections[i]
		if entry.Slug != "" {
			s.Slug = entry.Slug
		}
		if entry.URL != "" {
			s.URL = entry.URL
		}
		if entry.Title != "" {
			s.Title = entry.Title
		}
		return false
	}
	chapter.Sections = append(chapter.Sections, entry)
	return true
}

// BookSummary is a read-only per-book overview row for listings.
type BookSummary struct {
	Name     string
	Chapters int
	Articles int
}

// Summarize returns one row per book in catalog order.
func Summarize(cat domain.Catalog) []BookSummary {
	out := make([]BookSummary, 0, len(cat.Books))
	for _, b := range cat.Books {
		row := BookSummary{Name: b.Name, Chapters: len(b.Chapters)}
		for _, c := range b.Chapters {
			row.Articles += len(c.Sections)
		}
		out = append(out, row)
	}
	return out
}

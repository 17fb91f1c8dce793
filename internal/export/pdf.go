/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the catalog as a printable outline. Vector text
// only; built-in Helvetica keeps the file portable without font embedding.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"blogmanager/internal/domain"
)

// PDFOptions controls outline export behavior. Units are points.
type PDFOptions struct {
	Title       string
	ShowURLs    bool
	LineSpacing float64 // 0 means default
}

// ExportCatalogPDF writes the catalog outline to a single PDF at outPath.
func ExportCatalogPDF(cat domain.Catalog, outPath string, opt PDFOptions) error {
	title := opt.Title
	if title == "" {
		title = "Catalog"
	}
	spacing := opt.LineSpacing
	if spacing <= 0 {
		spacing = 16
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("Blog Manager", false)
	pdf.SetMargins(54, 54, 54)
	pdf.SetAutoPageBreak(true, 54)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, title, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, book := range cat.Books {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, spacing+4, book.Name, "", 1, "L", false, 0, "")
		for _, ch := range book.Chapters {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetX(pdf.GetX() + 18)
			pdf.CellFormat(0, spacing, ch.Name, "", 1, "L", false, 0, "")
			for _, sec := range ch.Sections {
				pdf.SetFont("Helvetica", "", 10)
				pdf.SetX(pdf.GetX() + 36)
				pdf.CellFormat(0, spacing-2, sec.Name, "", 1, "L", false, 0, "")
				if opt.ShowURLs && sec.URL != "" {
					pdf.SetFont("Helvetica", "I", 8)
					pdf.SetTextColor(110, 110, 110)
					pdf.SetX(pdf.GetX() + 36)
					pdf.CellFormat(0, spacing-4, sec.URL, "", 1, "L", false, 0, "")
					pdf.SetTextColor(0, 0, 0)
				}
			}
		}
		pdf.Ln(6)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"blogmanager/internal/catalog"
	"blogmanager/internal/compose"
	"blogmanager/internal/config"
	"blogmanager/internal/crash"
	"blogmanager/internal/domain"
	applog "blogmanager/internal/log"
	"blogmanager/internal/preview"
	"blogmanager/internal/reconcile"
	"blogmanager/internal/version"
	"log/slog"
)

// Run starts the Fyne-based desktop UI: an article form on the left, the
// live catalog tree on the right.
func Run(siteDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("site", siteDir))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := catalog.NewStore(cfg.CatalogPath(siteDir))
	composer := compose.New(cfg.Blog.Author, cfg.Blog.DefaultCategory, cfg.Compose.AlwaysScaffold)
	svc := reconcile.New(store, composer, cfg.PostsPath(siteDir))

	var draft *domain.ArticleDescriptor
	defer func() { crash.Recover(draft, siteDir) }()

	fyneApp := app.NewWithID("blogmanager")
	w := fyneApp.NewWindow("Blog Manager " + version.Version)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 720)
	if winW < 800 {
		winW = 800
	}
	if winH < 560 {
		winH = 560
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	// Catalog tree (right pane), rebuilt after every save.
	children := map[string][]string{}
	labels := map[string]string{}
	rebuildTree := func() {
		children = map[string][]string{}
		labels = map[string]string{}
		cat, _ := svc.Overview()
		for bi, b := range cat.Books {
			bid := fmt.Sprintf("b%d", bi)
			children[""] = append(children[""], bid)
			labels[bid] = b.Name
			for ci, ch := range b.Chapters {
				cid := fmt.Sprintf("b%d.c%d", bi, ci)
				children[bid] = append(children[bid], cid)
				labels[cid] = ch.Name
				for si, sec := range ch.Sections {
					sid := fmt.Sprintf("b%d.c%d.s%d", bi, ci, si)
					children[cid] = append(children[cid], sid)
					labels[sid] = sec.Name
				}
			}
		}
	}
	rebuildTree()
	tree := widget.NewTree(
		func(id widget.TreeNodeID) []widget.TreeNodeID { return children[id] },
		func(id widget.TreeNodeID) bool { return len(children[id]) > 0 },
		func(bool) fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TreeNodeID, _ bool, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(labels[id])
		},
	)

	// Article form (left pane)
	bookEntry := widget.NewEntry()
	chapterEntry := widget.NewEntry()
	sectionEntry := widget.NewEntry()
	sectionEntry.SetPlaceHolder("e.g. 1.1")
	titleEntry := widget.NewEntry()
	subtitleEntry := widget.NewEntry()
	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD (empty = today)")
	tagsEntry := widget.NewEntry()
	tagsEntry.SetPlaceHolder("comma separated")
	descEntry := widget.NewEntry()
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.SetPlaceHolder("Markdown body. Empty = scaffold.")
	contentEntry.Wrapping = fyne.TextWrapWord

	collect := func() (domain.ArticleDescriptor, error) {
		d := domain.ArticleDescriptor{
			Book:         bookEntry.Text,
			Chapter:      chapterEntry.Text,
			SectionLabel: sectionEntry.Text,
			Title:        titleEntry.Text,
			Subtitle:     subtitleEntry.Text,
			Tags:         tagsEntry.Text,
			Description:  descEntry.Text,
			Content:      contentEntry.Text,
		}
		if s := strings.TrimSpace(dateEntry.Text); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return d, fmt.Errorf("bad date %q, want YYYY-MM-DD", s)
			}
			d.Date = t
		}
		draft = &d
		return d, nil
	}

	saveBtn := widget.NewButton("Save Article", func() {
		d, err := collect()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		res, err := svc.Save(d)
		if err != nil {
			dialog.ShowError(err, w)
			status.SetText("Save failed")
			return
		}
		draft = nil
		rebuildTree()
		tree.Refresh()
		verb := "updated"
		if res.Created {
			verb = "created"
		}
		status.SetText(fmt.Sprintf("Saved: %s (%s)", res.CatalogEntryPath, verb))
	})
	previewBtn := widget.NewButton("Preview", func() {
		d, err := collect()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		doc, err := svc.Preview(d)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		body := preview.StripFrontMatter(doc.Body)
		rich := widget.NewRichTextFromMarkdown(string(body))
		rich.Wrapping = fyne.TextWrapWord
		dialog.ShowCustom(doc.Filename, "Close", container.NewVScroll(rich), w)
	})

	form := widget.NewForm(
		widget.NewFormItem("Book", bookEntry),
		widget.NewFormItem("Chapter", chapterEntry),
		widget.NewFormItem("Section", sectionEntry),
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Subtitle", subtitleEntry),
		widget.NewFormItem("Date", dateEntry),
		widget.NewFormItem("Tags", tagsEntry),
		widget.NewFormItem("Description", descEntry),
	)
	left := container.NewBorder(form, container.NewHBox(saveBtn, previewBtn), nil, nil, contentEntry)
	split := container.NewHSplit(left, tree)
	split.SetOffset(0.6)
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	w.ShowAndRun()
	return nil
}

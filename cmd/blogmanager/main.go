/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"blogmanager/internal/catalog"
	"blogmanager/internal/compose"
	"blogmanager/internal/config"
	"blogmanager/internal/crash"
	"blogmanager/internal/domain"
	"blogmanager/internal/export"
	applog "blogmanager/internal/log"
	"blogmanager/internal/preview"
	"blogmanager/internal/reconcile"
	"blogmanager/internal/search"
	"blogmanager/internal/ui"
	"blogmanager/internal/version"
)

func usage() {
	fmt.Println("Blog Manager — catalog and article tool for a Jekyll book blog")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  blogmanager version|-v|--version           Show version")
	fmt.Println("  blogmanager init <dir>                     Create a site skeleton (_posts, _data/books.yml)")
	fmt.Println("  blogmanager add [flags]                    Compose an article and update the catalog")
	fmt.Println("  blogmanager list [<dir>]                   Show the catalog overview")
	fmt.Println("  blogmanager preview [flags]                Print the composed document without saving")
	fmt.Println("  blogmanager search [flags] <query>         Full-text search over indexed posts")
	fmt.Println("  blogmanager reindex [<dir>]                Rebuild the search index from _posts")
	fmt.Println("  blogmanager export-pdf [flags]             Export the catalog outline as PDF")
	fmt.Println("  blogmanager ui [<dir>]                     Launch desktop UI (build with -tags fyne)")
	fmt.Println()
	fmt.Println("Run 'blogmanager <command> -h' for command flags.")
}

func newService(siteDir string) (*reconcile.Service, config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	store := catalog.NewStore(cfg.CatalogPath(siteDir))
	composer := compose.New(cfg.Blog.Author, cfg.Blog.DefaultCategory, cfg.Compose.AlwaysScaffold)
	return reconcile.New(store, composer, cfg.PostsPath(siteDir)), cfg, nil
}

// articleFlags binds the add/preview form fields onto a FlagSet.
func articleFlags(fs *flag.FlagSet) (site *string, d *descriptorFlags) {
	d = &descriptorFlags{}
	site = fs.String("site", ".", "site root directory")
	fs.StringVar(&d.book, "book", "", "book name (required)")
	fs.StringVar(&d.chapter, "chapter", "", "chapter name (required)")
	fs.StringVar(&d.section, "section", "", "section label, e.g. 1.1 (required)")
	fs.StringVar(&d.title, "title", "", "article title (required)")
	fs.StringVar(&d.subtitle, "subtitle", "", "optional subtitle")
	fs.StringVar(&d.date, "date", "", "publication date YYYY-MM-DD (default today)")
	fs.StringVar(&d.tags, "tags", "", "comma separated tags")
	fs.StringVar(&d.description, "description", "", "optional description")
	fs.StringVar(&d.contentFile, "content-file", "", "markdown body file; '-' reads stdin, empty scaffolds")
	return site, d
}

type descriptorFlags struct {
	book, chapter, section, title, subtitle, date, tags, description, contentFile string
}

func (f *descriptorFlags) descriptor() (domain.ArticleDescriptor, error) {
	d := domain.ArticleDescriptor{
		Book:         f.book,
		Chapter:      f.chapter,
		SectionLabel: f.section,
		Title:        f.title,
		Subtitle:     f.subtitle,
		Tags:         f.tags,
		Description:  f.description,
	}
	if f.date != "" {
		t, err := time.Parse("2006-01-02", f.date)
		if err != nil {
			return d, fmt.Errorf("bad -date %q, want YYYY-MM-DD", f.date)
		}
		d.Date = t
	}
	switch f.contentFile {
	case "":
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return d, fmt.Errorf("read stdin: %w", err)
		}
		d.Content = string(data)
	default:
		data, err := os.ReadFile(f.contentFile)
		if err != nil {
			return d, fmt.Errorf("read content file: %w", err)
		}
		d.Content = string(data)
	}
	return d, nil
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	var draft *domain.ArticleDescriptor
	var siteRoot string
	defer func() { crash.Recover(draft, siteRoot) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Blog Manager")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			siteRoot = abs
			l.Info("init site", slog.String("root", abs))
			svc, cfg, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			if err := os.MkdirAll(cfg.PostsPath(abs), 0o755); err != nil {
				fail(l, "init failed", err)
			}
			if err := svc.Store.Save(domain.Catalog{}); err != nil {
				fail(l, "init failed", err)
			}
			fmt.Println("Created site skeleton at", abs)
			return
		case "add":
			fs := flag.NewFlagSet("add", flag.ExitOnError)
			site, df := articleFlags(fs)
			_ = fs.Parse(args[2:])
			abs, _ := filepath.Abs(*site)
			siteRoot = abs
			d, err := df.descriptor()
			if err != nil {
				fail(l, "bad arguments", err)
			}
			draft = &d
			svc, _, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			res, err := svc.Save(d)
			if err != nil {
				fail(l, "save failed", err)
			}
			draft = nil
			verb := "Updated"
			if res.Created {
				verb = "Created"
			}
			fmt.Printf("%s catalog entry: %s\n", verb, res.CatalogEntryPath)
			fmt.Println("Wrote:", res.ContentPath)
			return
		case "list":
			dir := "."
			if len(args) >= 3 {
				dir = args[2]
			}
			abs, _ := filepath.Abs(dir)
			siteRoot = abs
			svc, _, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			_, rows := svc.Overview()
			if len(rows) == 0 {
				fmt.Println("Catalog is empty.")
				return
			}
			for _, r := range rows {
				fmt.Printf("%-40s %3d chapters %4d articles\n", r.Name, r.Chapters, r.Articles)
			}
			return
		case "preview":
			fs := flag.NewFlagSet("preview", flag.ExitOnError)
			site, df := articleFlags(fs)
			asHTML := fs.Bool("html", false, "render the body to HTML")
			_ = fs.Parse(args[2:])
			abs, _ := filepath.Abs(*site)
			siteRoot = abs
			d, err := df.descriptor()
			if err != nil {
				fail(l, "bad arguments", err)
			}
			svc, _, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			doc, err := svc.Preview(d)
			if err != nil {
				fail(l, "preview failed", err)
			}
			if *asHTML {
				out, err := preview.NewRenderer().Render(doc.Body)
				if err != nil {
					fail(l, "render failed", err)
				}
				os.Stdout.Write(out)
				return
			}
			fmt.Printf("# %s -> %s\n\n", doc.Filename, doc.URL)
			os.Stdout.Write(doc.Body)
			return
		case "search":
			fs := flag.NewFlagSet("search", flag.ExitOnError)
			site := fs.String("site", ".", "site root directory")
			book := fs.String("book", "", "filter by book name")
			tag := fs.String("tag", "", "filter by tag")
			limit := fs.Int("limit", 20, "maximum results")
			_ = fs.Parse(args[2:])
			abs, _ := filepath.Abs(*site)
			siteRoot = abs
			text := ""
			if fs.NArg() > 0 {
				text = fs.Arg(0)
			}
			res, err := search.Search(context.Background(), abs, search.Query{
				Text:  text,
				Book:  *book,
				Tag:   *tag,
				Limit: *limit,
			})
			if err != nil {
				fail(l, "search failed", err)
			}
			if len(res) == 0 {
				fmt.Println("No matches.")
				return
			}
			for _, r := range res {
				if r.Snippet != "" {
					fmt.Printf("%s  %s\n    %s\n", r.Path, r.Title, r.Snippet)
				} else {
					fmt.Printf("%s  %s\n", r.Path, r.Title)
				}
			}
			return
		case "reindex":
			dir := "."
			if len(args) >= 3 {
				dir = args[2]
			}
			abs, _ := filepath.Abs(dir)
			siteRoot = abs
			_, cfg, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			n, err := search.Reindex(context.Background(), abs, cfg.PostsPath(abs))
			if err != nil {
				fail(l, "reindex failed", err)
			}
			fmt.Printf("Indexed %d articles.\n", n)
			return
		case "export-pdf":
			fs := flag.NewFlagSet("export-pdf", flag.ExitOnError)
			site := fs.String("site", ".", "site root directory")
			out := fs.String("out", "catalog.pdf", "output file")
			title := fs.String("title", "Catalog", "document title")
			urls := fs.Bool("urls", false, "include article URLs")
			_ = fs.Parse(args[2:])
			abs, _ := filepath.Abs(*site)
			siteRoot = abs
			svc, _, err := newService(abs)
			if err != nil {
				fail(l, "config load failed", err)
			}
			cat, _ := svc.Overview()
			if err := export.ExportCatalogPDF(cat, *out, export.PDFOptions{Title: *title, ShowURLs: *urls}); err != nil {
				fail(l, "export failed", err)
			}
			fmt.Println("Wrote:", *out)
			return
		case "ui":
			dir := ""
			if len(args) >= 3 {
				dir = args[2]
			} else {
				dir = "."
			}
			abs, _ := filepath.Abs(dir)
			siteRoot = abs
			if err := ui.Run(abs); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

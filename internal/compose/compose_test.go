package compose

import (
	"strings"
	"testing"
	"time"

	"blogmanager/internal/domain"
)

func testComposer() *Composer {
	c := New("Heureka", "General", false)
	c.Now = func() time.Time { return time.Date(2025, 8, 20, 10, 30, 0, 0, time.UTC) }
	return c
}

func gpioDescriptor() domain.ArticleDescriptor {
	return domain.ArticleDescriptor{
		Book:         "Embedded C",
		Chapter:      "Chapter 1",
		SectionLabel: "1.1",
		Title:        "GPIO Configuration",
		Tags:         "STM32,GPIO",
		Date:         time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestComposeDerivedFields(t *testing.T) {
	entry, doc := testComposer().Compose(gpioDescriptor())
	if entry.Name != "1.1 GPIO Configuration" {
		t.Fatalf("composite name = %q", entry.Name)
	}
	if entry.Slug != "gpio-configuration" {
		t.Fatalf("slug = %q", entry.Slug)
	}
	if entry.URL != "/2025/08/20/gpio-configuration/" {
		t.Fatalf("url = %q", entry.URL)
	}
	if entry.Title != "GPIO Configuration" {
		t.Fatalf("title = %q", entry.Title)
	}
	if doc.Filename != "2025-08-20-gpio-configuration.md" {
		t.Fatalf("filename = %q", doc.Filename)
	}
	if doc.URL != entry.URL {
		t.Fatalf("doc url %q != entry url %q", doc.URL, entry.URL)
	}
}

func TestComposeFrontMatter(t *testing.T) {
	_, doc := testComposer().Compose(gpioDescriptor())
	text := string(doc.Body)
	for _, want := range []string{
		"---\n",
		"layout: book\n",
		"title: \"GPIO Configuration\"\n",
		"date: 2025-08-20 00:00:00\n",
		"author: Heureka\n",
		"book: \"Embedded C\"\n",
		"chapter: \"Chapter 1\"\n",
		"section: \"1.1\"\n",
		"tags:\n    - STM32\n    - GPIO\n",
		"mathjax: true\n",
		"catalog: true\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("front matter missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "subtitle:") || strings.Contains(text, "description:") {
		t.Fatalf("optional keys emitted although unset:\n%s", text)
	}
	// Exactly two marker lines.
	if got := strings.Count(text, "---\n"); got != 2 {
		t.Fatalf("expected 2 front matter markers, got %d", got)
	}
}

func TestComposeOptionalFields(t *testing.T) {
	d := gpioDescriptor()
	d.Subtitle = "Registers first"
	d.Description = "Configuring GPIO from scratch"
	_, doc := testComposer().Compose(d)
	text := string(doc.Body)
	if !strings.Contains(text, "subtitle: Registers first\n") {
		t.Fatalf("subtitle missing:\n%s", text)
	}
	if !strings.Contains(text, "description: Configuring GPIO from scratch\n") {
		t.Fatalf("description missing:\n%s", text)
	}
}

func TestComposeDefaultCategoryWhenNoTags(t *testing.T) {
	d := gpioDescriptor()
	d.Tags = ""
	_, doc := testComposer().Compose(d)
	if !strings.Contains(string(doc.Body), "tags:\n    - General\n") {
		t.Fatalf("default category not applied:\n%s", doc.Body)
	}
}

func TestComposeEmbedsContentWhenPresent(t *testing.T) {
	d := gpioDescriptor()
	d.Content = "Body written by the author."
	_, doc := testComposer().Compose(d)
	text := string(doc.Body)
	if !strings.Contains(text, "Body written by the author.") {
		t.Fatalf("content not embedded:\n%s", text)
	}
	if strings.Contains(text, "## 1. Introduction") {
		t.Fatalf("scaffold emitted although content was supplied:\n%s", text)
	}
}

func TestComposeScaffoldWhenContentEmpty(t *testing.T) {
	_, doc := testComposer().Compose(gpioDescriptor())
	text := string(doc.Body)
	for _, h := range []string{
		"## 1. Introduction",
		"## 2. Preparation",
		"## 3. Implementation Steps",
		"## 4. Code",
		"## 5. Verification",
		"## 6. Summary",
	} {
		if !strings.Contains(text, h) {
			t.Fatalf("scaffold heading %q missing:\n%s", h, text)
		}
	}
}

func TestComposeAlwaysScaffoldOverridesContent(t *testing.T) {
	c := testComposer()
	c.AlwaysScaffold = true
	d := gpioDescriptor()
	d.Content = "should be ignored"
	_, doc := c.Compose(d)
	text := string(doc.Body)
	if strings.Contains(text, "should be ignored") {
		t.Fatalf("content embedded despite always_scaffold:\n%s", text)
	}
	if !strings.Contains(text, "## 1. Introduction") {
		t.Fatalf("scaffold missing:\n%s", text)
	}
}

func TestComposeZeroDateUsesNow(t *testing.T) {
	c := testComposer()
	d := gpioDescriptor()
	d.Date = time.Time{}
	entry, doc := c.Compose(d)
	if entry.URL != "/2025/08/20/gpio-configuration/" {
		t.Fatalf("zero date did not fall back to Now: %q", entry.URL)
	}
	if doc.Filename != "2025-08-20-gpio-configuration.md" {
		t.Fatalf("filename = %q", doc.Filename)
	}
}

func TestComposeDeterministic(t *testing.T) {
	c := testComposer()
	d := gpioDescriptor()
	e1, d1 := c.Compose(d)
	e2, d2 := c.Compose(d)
	if e1 != e2 {
		t.Fatalf("entries differ: %+v vs %+v", e1, e2)
	}
	if string(d1.Body) != string(d2.Body) {
		t.Fatalf("documents differ")
	}
}

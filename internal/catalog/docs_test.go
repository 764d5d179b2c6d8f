package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDocs(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "core-concepts.md", "# Core Concepts\n\nSignals and fragments are the two core ideas.\n\nMore text.\n")
	writeDoc(t, dir, "sse-events.md", "# SSE Events\n\nHow server-sent events drive fragment patching.\n")
	writeDoc(t, dir, "notes.txt", "not markdown, must be skipped")

	docs, err := loadDocs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}

	// Files load in sorted name order.
	if docs[0].Title != "Core Concepts" {
		t.Errorf("docs[0].Title = %q", docs[0].Title)
	}
	if docs[0].URL != "/docs/core-concepts/" {
		t.Errorf("docs[0].URL = %q", docs[0].URL)
	}
	if docs[0].Description != "Signals and fragments are the two core ideas." {
		t.Errorf("docs[0].Description = %q", docs[0].Description)
	}
	if docs[0].Category != "Documentation" {
		t.Errorf("docs[0].Category = %q", docs[0].Category)
	}
	if !strings.Contains(docs[0].Content, "More text.") {
		t.Error("doc content should include the full file")
	}

	// Unknown slug gets a title derived from the file name.
	if docs[1].Title != "Sse Events" {
		t.Errorf("docs[1].Title = %q", docs[1].Title)
	}
	if docs[1].URL != "/docs/sse-events/" {
		t.Errorf("docs[1].URL = %q", docs[1].URL)
	}
}

func TestLoadDocsDescriptionTruncated(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("x", 200)
	writeDoc(t, dir, "installation.md", "# Installation\n\n"+long+"\n")

	docs, err := loadDocs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Repeat("x", descriptionMaxLen) + "..."
	if docs[0].Description != want {
		t.Errorf("description length = %d, want %d", len(docs[0].Description), len(want))
	}
}

func TestLoadDocsDescriptionFallback(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "troubleshooting.md", "# Troubleshooting\n")

	docs, err := loadDocs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Description != "Documentation for Troubleshooting" {
		t.Errorf("fallback description = %q", docs[0].Description)
	}
}

func TestLoadDocsIndexSlug(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "index.md", "# Guide\n\nThe complete guide.\n")

	docs, err := loadDocs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Title != "Pattern Guide" || docs[0].URL != "/docs/" {
		t.Errorf("index doc mapped to %q %q", docs[0].Title, docs[0].URL)
	}
}

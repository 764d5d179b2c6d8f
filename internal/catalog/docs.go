package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const descriptionMaxLen = 150

// docTitles maps known doc slugs to display titles and routes. Slugs not
// listed here get a title derived from the file name.
var docTitles = map[string]struct {
	Title string
	URL   string
}{
	"index":             {Title: "Pattern Guide", URL: "/docs/"},
	"table-of-contents": {Title: "Table of Contents", URL: "/docs/table-of-contents/"},
	"core-concepts":     {Title: "Core Concepts", URL: "/docs/core-concepts/"},
	"installation":      {Title: "Installation", URL: "/docs/installation/"},
	"best-practices":    {Title: "Best Practices", URL: "/docs/best-practices/"},
	"common-patterns":   {Title: "Common Patterns", URL: "/docs/common-patterns/"},
	"troubleshooting":   {Title: "Troubleshooting", URL: "/docs/troubleshooting/"},
	"error-handling":    {Title: "Error Handling", URL: "/docs/error-handling/"},
}

// loadDocs reads every markdown file in dir and turns it into a DocRecord.
// A missing directory is not an error: the gallery can run without docs.
func loadDocs(dir string) ([]DocRecord, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading docs dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]DocRecord, 0, len(names))
	for _, name := range names {
		slug := strings.TrimSuffix(name, ".md")
		if strings.HasPrefix(slug, "index") {
			slug = "index"
		}

		title, url := slugTitle(slug)

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading doc %s: %w", name, err)
		}
		content := string(data)

		description := firstParagraph(content)
		if description == "" {
			description = "Documentation for " + title
		}

		docs = append(docs, DocRecord{
			Title:       title,
			Description: description,
			Content:     content,
			URL:         url,
			Category:    "Documentation",
		})
	}
	return docs, nil
}

func slugTitle(slug string) (title, url string) {
	if m, ok := docTitles[slug]; ok {
		return m.Title, m.URL
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " "), "/docs/" + slug + "/"
}

// firstParagraph extracts the first non-heading line after the title line,
// truncated to descriptionMaxLen characters.
func firstParagraph(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= 1 {
		return ""
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > descriptionMaxLen {
			return line[:descriptionMaxLen] + "..."
		}
		return line
	}
	return ""
}

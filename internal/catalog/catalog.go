// Package catalog supplies the raw records the search index is built from:
// the pattern example gallery and the documentation pages. The catalog only
// materializes records; converting them into index entries is the index's job.
package catalog

import "log/slog"

// ExampleRecord describes one UI pattern demo in the gallery.
type ExampleRecord struct {
	ID          string
	Title       string
	Description string
	Content     string
	URL         string
	Category    string
}

// DocRecord describes one documentation page.
type DocRecord struct {
	Title       string
	Description string
	Content     string
	URL         string
	Category    string
}

// Catalog materializes example and documentation records on demand.
type Catalog struct {
	docsDir string
	logger  *slog.Logger
}

// New creates a Catalog that reads documentation pages from docsDir.
// An empty or missing docsDir simply yields no documentation records.
func New(docsDir string) *Catalog {
	return &Catalog{
		docsDir: docsDir,
		logger:  slog.Default().With("component", "catalog"),
	}
}

// Examples returns the pattern example records in gallery order, with
// learn-more links pointing at the matching documentation route.
func (c *Catalog) Examples() []ExampleRecord {
	records := make([]ExampleRecord, len(examplesData))
	copy(records, examplesData)
	return records
}

// LearnMoreURL returns the documentation route for an example ID.
func LearnMoreURL(exampleID string) string {
	return "/docs/" + exampleID + "/"
}

// Docs returns the documentation records loaded from the docs directory.
func (c *Catalog) Docs() []DocRecord {
	docs, err := loadDocs(c.docsDir)
	if err != nil {
		c.logger.Warn("loading docs failed, indexing without documentation",
			"dir", c.docsDir,
			"error", err,
		)
		return nil
	}
	return docs
}

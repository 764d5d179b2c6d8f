package index

// Kind distinguishes example entries from documentation entries.
type Kind string

const (
	KindExample Kind = "example"
	KindDoc     Kind = "doc"
)

// Entry is one indexed record. Entries are immutable once constructed;
// the index replaces them wholesale on rebuild.
type Entry struct {
	Title        string
	Description  string
	Content      string
	URL          string
	Kind         Kind
	Category     string
	LearnMoreURL string
}

// Result is the public projection of an Entry returned from Search.
// Content is matched against but never exposed in results.
type Result struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Kind         Kind   `json:"kind"`
	Category     string `json:"category"`
	LearnMoreURL string `json:"learn_more_url,omitempty"`
}

// View projects an Entry to its public Result form.
func (e *Entry) View() Result {
	return Result{
		Title:        e.Title,
		Description:  e.Description,
		URL:          e.URL,
		Kind:         e.Kind,
		Category:     e.Category,
		LearnMoreURL: e.LearnMoreURL,
	}
}

package index

import "strings"

// Relevance weights per matched field. A title prefix match earns an extra
// bonus on top of the title weight.
const (
	titleScore       = 100
	titlePrefixBonus = 20
	descriptionScore = 50
	contentScore     = 25
)

// Match tiers: coarse quality buckets used as a sort tie-breaker.
const (
	tierNone        = 0
	tierContent     = 1
	tierDescription = 2
	tierTitle       = 3
)

// condition is a single field-containment predicate evaluated directly
// against an Entry. The value must already be lower-cased.
type condition struct {
	field string
	value string
}

// matches reports whether the entry's field contains the condition value,
// case-insensitively. Unknown field names evaluate to no-match rather than
// an error.
func (c condition) matches(e *Entry) bool {
	return strings.Contains(strings.ToLower(fieldValue(e, c.field)), c.value)
}

func fieldValue(e *Entry, field string) string {
	switch field {
	case "title":
		return e.Title
	case "description":
		return e.Description
	case "content":
		return e.Content
	default:
		return ""
	}
}

// scoredEntry pairs an entry with its relevance score and match tier for
// the duration of one Search call.
type scoredEntry struct {
	score int
	tier  int
	entry *Entry
}

// rankLess orders scored entries by score descending, then tier ascending,
// then title. The ascending tier direction is deliberate: among equal
// scores, lower-tier matches sort first.
func rankLess(a, b scoredEntry) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.tier != b.tier {
		return a.tier < b.tier
	}
	return a.entry.Title < b.entry.Title
}

// scoreEntry computes the relevance score and match tier for one entry.
// query must be non-empty and lower-cased by the caller.
func scoreEntry(e *Entry, query string) (score, tier int) {
	if (condition{field: "title", value: query}).matches(e) {
		score += titleScore
		tier = tierTitle
		if strings.HasPrefix(strings.ToLower(e.Title), query) {
			score += titlePrefixBonus
		}
	}
	if (condition{field: "description", value: query}).matches(e) {
		score += descriptionScore
		if tier < tierDescription {
			tier = tierDescription
		}
	}
	if (condition{field: "content", value: query}).matches(e) {
		score += contentScore
		if tier < tierContent {
			tier = tierContent
		}
	}
	return score, tier
}

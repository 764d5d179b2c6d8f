package index

import "testing"

func TestScoreEntry(t *testing.T) {
	entry := &Entry{
		Title:       "Active Search",
		Description: "search contacts",
		Content:     "datastar search example",
	}

	tests := []struct {
		name      string
		query     string
		wantScore int
		wantTier  int
	}{
		{
			name:      "title prefix match",
			query:     "active",
			wantScore: titleScore + titlePrefixBonus,
			wantTier:  tierTitle,
		},
		{
			name:      "match in all three fields without prefix",
			query:     "search",
			wantScore: titleScore + descriptionScore + contentScore,
			wantTier:  tierTitle,
		},
		{
			name:      "description only",
			query:     "contacts",
			wantScore: descriptionScore,
			wantTier:  tierDescription,
		},
		{
			name:      "content only",
			query:     "datastar",
			wantScore: contentScore,
			wantTier:  tierContent,
		},
		{
			name:      "no match",
			query:     "missing",
			wantScore: 0,
			wantTier:  tierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tier := scoreEntry(entry, tt.query)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if tier != tt.wantTier {
				t.Errorf("tier = %d, want %d", tier, tt.wantTier)
			}
		})
	}
}

func TestScoreEntryPrefixBonusOnlyOnTitleStart(t *testing.T) {
	entry := &Entry{Title: "Lazy Tabs"}

	score, _ := scoreEntry(entry, "lazy")
	if score != titleScore+titlePrefixBonus {
		t.Errorf("prefix query score = %d, want %d", score, titleScore+titlePrefixBonus)
	}

	score, _ = scoreEntry(entry, "tabs")
	if score != titleScore {
		t.Errorf("mid-title query score = %d, want %d", score, titleScore)
	}
}

func TestRankLess(t *testing.T) {
	titled := func(title string) *Entry { return &Entry{Title: title} }

	tests := []struct {
		name string
		a, b scoredEntry
		want bool
	}{
		{
			name: "higher score first",
			a:    scoredEntry{score: 120, tier: tierTitle, entry: titled("b")},
			b:    scoredEntry{score: 50, tier: tierDescription, entry: titled("a")},
			want: true,
		},
		{
			name: "equal score sorts lower tier first",
			a:    scoredEntry{score: 100, tier: tierContent, entry: titled("z")},
			b:    scoredEntry{score: 100, tier: tierTitle, entry: titled("a")},
			want: true,
		},
		{
			name: "equal score and tier falls back to title",
			a:    scoredEntry{score: 100, tier: tierTitle, entry: titled("Alpha")},
			b:    scoredEntry{score: 100, tier: tierTitle, entry: titled("Beta")},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankLess(tt.a, tt.b); got != tt.want {
				t.Errorf("rankLess = %v, want %v", got, tt.want)
			}
			if got := rankLess(tt.b, tt.a); got == tt.want {
				t.Errorf("rankLess should be asymmetric for distinct items")
			}
		})
	}
}

func TestConditionUnknownFieldNeverMatches(t *testing.T) {
	entry := &Entry{
		Title:       "Sortable",
		Description: "drag and drop",
		Content:     "sortable list",
	}

	c := condition{field: "urll", value: "sortable"}
	if c.matches(entry) {
		t.Error("unknown field should evaluate to no-match, not an error or a hit")
	}
}

func TestConditionCaseInsensitive(t *testing.T) {
	entry := &Entry{Title: "Infinite Scroll"}

	for _, value := range []string{"infinite", "scroll"} {
		if !(condition{field: "title", value: value}).matches(entry) {
			t.Errorf("condition %q should match title %q", value, entry.Title)
		}
	}
}

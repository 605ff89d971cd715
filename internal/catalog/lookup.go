package catalog

import (
	"fmt"
	"strings"
)

// Lookup returns the first entry whose title or description contains keyword,
// case-insensitively. Sections are scanned in fixed order, then sub-categories
// and entries in document order. NoUpdatesFound is returned when nothing matches.
func Lookup(keyword string, doc *Document) string {
	loc, ok := Find(keyword, doc)
	if !ok {
		return NoUpdatesFound
	}
	return fmt.Sprintf("Section: %s\nSub-Category: %s\n%s: %s", loc.Section, loc.SubCategory, loc.Title, loc.Description)
}

// Find is Lookup without the formatting.
func Find(keyword string, doc *Document) (Located, bool) {
	if doc == nil {
		return Located{}, false
	}
	needle := strings.ToLower(keyword)
	for _, name := range Sections {
		section := doc.Section(name)
		if section == nil {
			continue
		}
		for _, sub := range section.SubCategories {
			for _, e := range sub.Entries {
				if strings.Contains(strings.ToLower(e.Title), needle) ||
					strings.Contains(strings.ToLower(e.Description), needle) {
					return Located{Section: section.Name, SubCategory: sub.Name, Entry: e}, true
				}
			}
		}
	}
	return Located{}, false
}

// SummarizeHighlights renders every Highlights entry as a markdown bullet
// after a fixed intro line.
func SummarizeHighlights(doc *Document) string {
	return SummarizeHighlightsFor(doc, "")
}

// SummarizeHighlightsFor is SummarizeHighlights with the framework named in
// the intro line. An empty framework gives the generic intro.
func SummarizeHighlightsFor(doc *Document, framework string) string {
	entries := highlights(doc)
	if len(entries) == 0 {
		return NoHighlightsFound
	}

	var b strings.Builder
	if framework == "" {
		b.WriteString(HighlightsIntro)
	} else {
		fmt.Fprintf(&b, highlightsIntroFrom, framework)
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s**: %s\n", e.Title, e.Description)
	}
	return b.String()
}

// Greeting builds the opening assistant message: a welcome line followed by
// the highlights with their documentation pointers.
func Greeting(doc *Document, name, framework string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I am %s. How can I assist you with %s today?\n", name, framework)

	entries := highlights(doc)
	if len(entries) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "\n### Latest %s Highlights:\n", framework)
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s**: %s\n  - **Documentation**: %s\n", e.Title, e.Description, e.Documentation)
	}
	return b.String()
}

func highlights(doc *Document) []Entry {
	section := doc.Section(SectionHighlights)
	if section == nil {
		return nil
	}
	var out []Entry
	for _, sub := range section.SubCategories {
		out = append(out, sub.Entries...)
	}
	return out
}

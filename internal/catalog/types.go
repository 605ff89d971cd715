package catalog

// Fixed top-level sections of the updates document, in lookup order.
const (
	SectionHighlights     = "Highlights"
	SectionNotableChanges = "Notable Changes"
	SectionOtherChanges   = "Other Changes"
)

// Sections lists the recognized sections in the order they are scanned.
var Sections = []string{SectionHighlights, SectionNotableChanges, SectionOtherChanges}

// Placeholder text for entries missing a field.
const (
	NoDescription   = "No description available."
	NoDocumentation = "No documentation available."
)

// Sentinel replies.
const (
	NoUpdatesFound    = "No updates found for the specified keyword."
	NoHighlightsFound = "No highlights found in the latest updates."
	HighlightsIntro   = "Here are the latest highlights:\n"

	highlightsIntroFrom = "Here are the latest highlights from %s:\n"
)

// Entry is a single release note.
type Entry struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Documentation string `json:"documentation"`
}

// SubCategory groups entries under a named heading within a section.
type SubCategory struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Section is one of the fixed top-level categories.
type Section struct {
	Name          string        `json:"name"`
	SubCategories []SubCategory `json:"sub_categories"`
}

// Document is the parsed, ordered updates document. It is never modified
// after Load or Parse returns, so it can be shared between sessions.
type Document struct {
	Sections []Section `json:"sections"`
}

// Located is an entry together with the section and sub-category it lives in.
type Located struct {
	Section     string `json:"section"`
	SubCategory string `json:"sub_category"`
	Entry
}

// Empty reports whether the document has no entries at all.
func (d *Document) Empty() bool {
	if d == nil {
		return true
	}
	for _, s := range d.Sections {
		for _, sub := range s.SubCategories {
			if len(sub.Entries) > 0 {
				return false
			}
		}
	}
	return true
}

// Section returns the named section, or nil if it is absent.
func (d *Document) Section(name string) *Section {
	if d == nil {
		return nil
	}
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}

// Entries flattens the document in scan order.
func (d *Document) Entries() []Located {
	var out []Located
	if d == nil {
		return out
	}
	for _, s := range d.Sections {
		for _, sub := range s.SubCategories {
			for _, e := range sub.Entries {
				out = append(out, Located{Section: s.Name, SubCategory: sub.Name, Entry: e})
			}
		}
	}
	return out
}

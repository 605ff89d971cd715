package catalog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/samber/oops"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultPath is where the updates document lives relative to the working directory.
const DefaultPath = "data/streamlit_updates.json"

// Load reads the updates document at path. A missing or malformed file is
// logged and yields an empty document; Load never fails.
func Load(path string) *Document {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Updates document unavailable, using empty catalog",
			"path", path,
			"error", oops.In("catalog").Code("catalog_load").With("path", path).Wrapf(err, "reading updates document"))
		return &Document{}
	}

	doc, err := Parse(data)
	if err != nil {
		slog.Warn("Updates document malformed, using empty catalog",
			"path", path,
			"error", err)
		return &Document{}
	}

	slog.Debug("Loaded updates document",
		"path", path,
		"sections", len(doc.Sections),
		"entries", len(doc.Entries()))

	return doc
}

// Parse decodes an updates document. Only the top level must be a JSON
// object; nodes of an unexpected shape below it are treated as absent.
// Key order of the source is preserved.
func Parse(data []byte) (*Document, error) {
	top, ok := decodeObject(data)
	if !ok {
		return nil, oops.In("catalog").Code("catalog_load").Errorf("updates document is not a JSON object")
	}

	doc := &Document{}
	for _, name := range Sections {
		raw, present := top.Get(name)
		if !present {
			continue
		}
		subs, ok := decodeObject(raw)
		if !ok {
			continue
		}

		section := Section{Name: name}
		for sub := subs.Oldest(); sub != nil; sub = sub.Next() {
			entries, ok := decodeObject(sub.Value)
			if !ok {
				continue
			}
			sc := SubCategory{Name: sub.Key}
			for e := entries.Oldest(); e != nil; e = e.Next() {
				sc.Entries = append(sc.Entries, decodeEntry(e.Key, e.Value))
			}
			section.SubCategories = append(section.SubCategories, sc)
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc, nil
}

func decodeObject(raw []byte) (*orderedmap.OrderedMap[string, json.RawMessage], bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, om); err != nil {
		return nil, false
	}
	return om, true
}

func decodeEntry(title string, raw json.RawMessage) Entry {
	e := Entry{Title: title, Description: NoDescription, Documentation: NoDocumentation}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return e
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			e.Description = s
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return e
		}
		if s, ok := stringField(fields, "Description"); ok {
			e.Description = s
		}
		if s, ok := stringField(fields, "Documentation"); ok {
			e.Documentation = s
		}
	}

	return e
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

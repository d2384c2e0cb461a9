package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Section is a single statutory section within a category.
type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Category is a named group of statutory sections. Section order follows
// the source document.
type Category struct {
	Name     string
	Sections []Section
}

// StatuteTree is the primary statute document: categories of sections in
// document order. Section titles are unique within a category but not
// globally.
type StatuteTree struct {
	Categories []Category
	index      map[string]int
}

// Category returns the named category, if present.
func (t *StatuteTree) Category(name string) (*Category, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.Categories[i], true
}

// CategoryNames returns category names in document order.
func (t *StatuteTree) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// Definition is an interpretation entry: a defined term and its statutory
// definition.
type Definition struct {
	Term string
	Text string
}

// Definitions holds interpretation entries in document order. Iteration
// order matters: the definition pass appends matches in table order.
type Definitions struct {
	Entries []Definition
}

// Schedules maps a lowercase ordinal word ("first".."eleventh") to the
// text of that schedule.
type Schedules map[string]string

// RegulationSection describes one section entry under a subsidiary
// regulation.
type RegulationSection struct {
	Description string `json:"description"`
}

// Regulation is a named piece of subsidiary legislation with the statute
// section numbers it implements.
type Regulation struct {
	Name     string
	Sections map[string]RegulationSection
}

// SubsidiaryMapping holds subsidiary regulations in document order. The
// subsidiary pass is first-match-wins, so insertion order is part of the
// contract.
type SubsidiaryMapping struct {
	Regulations []Regulation
}

// JSON objects decode to Go maps with no key order, but the cascade's
// dedup and first-match rules depend on document order. These loaders walk
// the token stream instead so top-level key order survives.

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// decodeOrderedObject reads one JSON object, invoking fn for each key in
// document order. fn decodes the value from dec.
func decodeOrderedObject(dec *json.Decoder, fn func(key string) error) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func loadStatuteTree(path string) (*StatuteTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statute file: %w", err)
	}
	defer f.Close()
	return decodeStatuteTree(f)
}

func decodeStatuteTree(r io.Reader) (*StatuteTree, error) {
	dec := json.NewDecoder(r)
	tree := &StatuteTree{index: make(map[string]int)}

	err := decodeOrderedObject(dec, func(category string) error {
		cat := Category{Name: category}
		err := decodeOrderedObject(dec, func(title string) error {
			var text string
			if err := dec.Decode(&text); err != nil {
				return err
			}
			cat.Sections = append(cat.Sections, Section{Title: title, Text: text})
			return nil
		})
		if err != nil {
			return err
		}
		tree.index[category] = len(tree.Categories)
		tree.Categories = append(tree.Categories, cat)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode statute tree: %w", err)
	}
	return tree, nil
}

func loadDefinitions(path string) (*Definitions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definitions file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	defs := &Definitions{}
	err = decodeOrderedObject(dec, func(term string) error {
		var text string
		if err := dec.Decode(&text); err != nil {
			return err
		}
		defs.Entries = append(defs.Entries, Definition{Term: term, Text: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode definitions: %w", err)
	}
	return defs, nil
}

func loadSchedules(path string) (Schedules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open schedules file: %w", err)
	}

	schedules := make(Schedules)
	if err := json.Unmarshal(data, &schedules); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	return schedules, nil
}

func loadSubsidiaryMapping(path string) (*SubsidiaryMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subsidiary file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	mapping := &SubsidiaryMapping{}
	err = decodeOrderedObject(dec, func(key string) error {
		if key != "subsidiary_legislation_mapping" {
			// Skip unknown top-level keys.
			var skip json.RawMessage
			return dec.Decode(&skip)
		}
		return decodeOrderedObject(dec, func(regName string) error {
			sections := make(map[string]RegulationSection)
			if err := dec.Decode(&sections); err != nil {
				return err
			}
			mapping.Regulations = append(mapping.Regulations, Regulation{
				Name:     regName,
				Sections: sections,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("decode subsidiary mapping: %w", err)
	}
	return mapping, nil
}

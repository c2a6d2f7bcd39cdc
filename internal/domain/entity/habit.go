package entity

import "strings"

// HabitEntry is one category of the consumption profile.
// Raw keeps the JSON text of the value so non-numeric quantities can be reported.
type HabitEntry struct {
	Category string `json:"category"`
	Raw      string `json:"raw"`
}

// HabitProfile maps categories to monthly quantities, preserving file order.
type HabitProfile struct {
	Entries []HabitEntry `json:"entries"`
}

// NewTemplateProfile builds a zero-valued profile for the given categories.
func NewTemplateProfile(categories []string) *HabitProfile {
	p := &HabitProfile{Entries: make([]HabitEntry, 0, len(categories))}
	seen := make(map[string]bool)
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		p.Entries = append(p.Entries, HabitEntry{Category: c, Raw: "0"})
	}
	return p
}

// Quantity returns the raw quantity for category.
func (p *HabitProfile) Quantity(category string) (string, bool) {
	for _, e := range p.Entries {
		if e.Category == category {
			return e.Raw, true
		}
	}
	return "", false
}

// Set replaces or appends the quantity for category.
func (p *HabitProfile) Set(category, raw string) {
	for i, e := range p.Entries {
		if e.Category == category {
			p.Entries[i].Raw = raw
			return
		}
	}
	p.Entries = append(p.Entries, HabitEntry{Category: category, Raw: raw})
}

package entity

import (
	"sort"
	"strings"
)

// Colunas de identidade; todas as outras colunas do dataset são categorias.
const (
	ColumnCity    = "City"
	ColumnCountry = "Country"
	ColumnYear    = "Year"
	ColumnMonth   = "Month"
)

// IsIdentityColumn reports whether name is one of City, Country, Year or Month.
func IsIdentityColumn(name string) bool {
	switch strings.TrimSpace(name) {
	case ColumnCity, ColumnCountry, ColumnYear, ColumnMonth:
		return true
	}
	return false
}

// PriceRecord is one dataset row: a city in a given year with its raw cell values.
type PriceRecord struct {
	City    string            `json:"city"`
	Country string            `json:"country"`
	Year    int               `json:"year"`
	Values  map[string]string `json:"values"`
}

// Value returns the trimmed cell for column and whether it is present (non-empty).
func (r PriceRecord) Value(column string) (string, bool) {
	v, ok := r.Values[column]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Dataset is the unified, ordered table produced by the merger.
// Columns keeps declaration order, which drives income column detection.
type Dataset struct {
	Columns []string      `json:"columns"`
	Records []PriceRecord `json:"records"`
}

// Categories returns the non-identity columns in declaration order.
func (d *Dataset) Categories() []string {
	categories := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if IsIdentityColumn(c) {
			continue
		}
		categories = append(categories, strings.TrimSpace(c))
	}
	return categories
}

// HasColumn reports whether the dataset declares column.
func (d *Dataset) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// LatestYear returns the highest year present, or 0 for an empty dataset.
func (d *Dataset) LatestYear() int {
	latest := 0
	for _, r := range d.Records {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

// Years returns the distinct years in ascending order.
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range d.Records {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// YearTable is the table returned by the data source for a single year,
// before the merger tags it with the year.
type YearTable struct {
	Columns []string
	Rows    []map[string]string
}

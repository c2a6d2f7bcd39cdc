package numbeo

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

const rankColumn = "Rank"

// ParseLastTable extracts the last <table> of the page as a YearTable.
// The Rank column is dropped and every row gets City and Country fields.
func ParseLastTable(r io.Reader) (*entity.YearTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var last *html.Node
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			last = n
		}
	})
	if last == nil {
		return nil, fmt.Errorf("no table found in page")
	}

	var rows [][]string
	headerIdx := -1
	walk(last, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
			return
		}
		cells, isHeader := rowCells(n)
		if len(cells) == 0 {
			return
		}
		if isHeader && headerIdx < 0 {
			headerIdx = len(rows)
		}
		rows = append(rows, cells)
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("table has no rows")
	}
	if headerIdx < 0 {
		headerIdx = 0
	}

	return buildTable(rows[headerIdx], rows[headerIdx+1:])
}

func buildTable(header []string, body [][]string) (*entity.YearTable, error) {
	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header)+1)
	hasCity, hasCountry := false, false
	for i, name := range header {
		if name == rankColumn || name == "" {
			continue
		}
		switch name {
		case entity.ColumnCity:
			hasCity = true
		case entity.ColumnCountry:
			hasCountry = true
		}
		keep = append(keep, i)
		columns = append(columns, name)
	}
	if !hasCity && !hasCountry {
		return nil, fmt.Errorf("table has neither %s nor %s column", entity.ColumnCity, entity.ColumnCountry)
	}

	switch {
	case hasCity && !hasCountry:
		columns = insertAfter(columns, entity.ColumnCity, entity.ColumnCountry)
	case !hasCity:
		columns = append([]string{entity.ColumnCity}, columns...)
	}

	table := &entity.YearTable{Columns: columns}
	for _, cells := range body {
		if len(cells) != len(header) {
			continue
		}
		row := make(map[string]string, len(columns))
		for _, i := range keep {
			row[header[i]] = cells[i]
		}
		normalizeLocation(row, hasCity, hasCountry)
		if row[entity.ColumnCity] == "" {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}
	return table, nil
}

// normalizeLocation fills City and Country. "Paris, France" splits at the last comma.
func normalizeLocation(row map[string]string, hasCity, hasCountry bool) {
	switch {
	case hasCity && !hasCountry:
		city := row[entity.ColumnCity]
		if i := strings.LastIndex(city, ","); i >= 0 {
			row[entity.ColumnCity] = strings.TrimSpace(city[:i])
			row[entity.ColumnCountry] = strings.TrimSpace(city[i+1:])
		} else {
			row[entity.ColumnCountry] = ""
		}
	case !hasCity:
		row[entity.ColumnCity] = row[entity.ColumnCountry]
	}
}

func insertAfter(columns []string, after, name string) []string {
	out := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		out = append(out, c)
		if c == after {
			out = append(out, name)
		}
	}
	return out
}

func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	isHeader := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			isHeader = true
			cells = append(cells, cellText(c))
		case atom.Td:
			cells = append(cells, cellText(c))
		}
	}
	return cells, isHeader
}

func cellText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

package usecase

import "strings"

// IncomePredicate decides whether a column holds the monthly income.
type IncomePredicate struct {
	Name  string
	Match func(column string) bool
}

// IncomeMatcher picks the income column of a dataset.
//
// Predicates are evaluated in order and, for each predicate, columns are
// scanned in declaration order; the first hit wins. Preferred column names
// come first (exact, case-insensitive), followed by a single keyword
// predicate ("income", "salary" by default).
type IncomeMatcher struct {
	predicates []IncomePredicate
	keywords   []string
	preferred  []string
}

// NewIncomeMatcher builds the predicate list from preferred column names and keywords.
func NewIncomeMatcher(preferred, keywords []string) IncomeMatcher {
	m := IncomeMatcher{}
	for _, p := range preferred {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		m.preferred = append(m.preferred, p)
		name := p
		m.predicates = append(m.predicates, IncomePredicate{
			Name: "column:" + name,
			Match: func(column string) bool {
				return strings.ToLower(strings.TrimSpace(column)) == name
			},
		})
	}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	if len(m.keywords) > 0 {
		m.predicates = append(m.predicates, IncomePredicate{
			Name:  "keywords:" + strings.Join(m.keywords, ","),
			Match: m.containsKeyword,
		})
	}
	return m
}

func (m IncomeMatcher) containsKeyword(column string) bool {
	lower := strings.ToLower(column)
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsIncomeLike reports whether a category describes income rather than spending.
func (m IncomeMatcher) IsIncomeLike(category string) bool {
	for _, p := range m.predicates {
		if p.Match(category) {
			return true
		}
	}
	return false
}

// Column returns the income column among columns, if any.
func (m IncomeMatcher) Column(columns []string) (string, bool) {
	for _, p := range m.predicates {
		for _, c := range columns {
			if p.Match(c) {
				return c, true
			}
		}
	}
	return "", false
}

// Predicates returns the predicate names in evaluation order.
func (m IncomeMatcher) Predicates() []string {
	names := make([]string, len(m.predicates))
	for i, p := range m.predicates {
		names[i] = p.Name
	}
	return names
}

// Package classify labels financial records as revenue, COGS or opex by
// fuzzy matching their account (or entity) text.
//
// The three predicates are deliberately independent and evaluated per call
// site: a contrived label such as "Opex: Sales Commissions" matches more
// than one category, and callers do not deduplicate. See the exclusivity
// test for the labels that violate this in practice.
package classify

import (
	"regexp"
	"strings"

	"finsight/pkg/contracts/domain"
)

// Category identifies a financial category.
type Category string

const (
	CategoryRevenue Category = "revenue"
	CategoryCOGS    Category = "cogs"
	CategoryOpex    Category = "opex"
)

var salesWordPattern = regexp.MustCompile(`\bsales\b`)

// IsRevenue reports whether a label denotes revenue: exactly "revenue" or
// containing the whole word "sales".
func IsRevenue(label string) bool {
	s := strings.ToLower(label)
	return s == "revenue" || salesWordPattern.MatchString(s)
}

// IsCOGS reports whether a label denotes cost of goods sold: exactly "cogs"
// or containing "cost of goods".
func IsCOGS(label string) bool {
	s := strings.ToLower(label)
	return s == "cogs" || strings.Contains(s, "cost of goods")
}

// IsOpex reports whether a label denotes operating expense: prefixed with
// "opex" or containing "operating expense".
func IsOpex(label string) bool {
	s := strings.ToLower(label)
	return strings.HasPrefix(s, "opex") || strings.Contains(s, "operating expense")
}

// Matches reports whether a record belongs to the given category.
func Matches(r domain.Record, category Category) bool {
	switch category {
	case CategoryRevenue:
		return IsRevenue(r.Label())
	case CategoryCOGS:
		return IsCOGS(r.Label())
	case CategoryOpex:
		return IsOpex(r.Label())
	default:
		return false
	}
}

// Select returns the records matching the given category.
func Select(records []domain.Record, category Category) []domain.Record {
	var out []domain.Record
	for _, r := range records {
		if Matches(r, category) {
			out = append(out, r)
		}
	}
	return out
}

// SelectAny returns the records matching at least one of the categories.
func SelectAny(records []domain.Record, categories ...Category) []domain.Record {
	var out []domain.Record
	for _, r := range records {
		for _, c := range categories {
			if Matches(r, c) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Categories returns every category a record matches. More than one entry
// signals a double-counting label.
func Categories(r domain.Record) []Category {
	var out []Category
	for _, c := range []Category{CategoryRevenue, CategoryCOGS, CategoryOpex} {
		if Matches(r, c) {
			out = append(out, c)
		}
	}
	return out
}

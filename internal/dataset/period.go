package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "finsight/internal/errors"
)

// parseRatioThreshold is the minimum share of rows that must parse as dates
// for a candidate column to be accepted. An explicitly named "period" column
// is exempt: one parseable value is enough.
const parseRatioThreshold = 0.6

// Column-name keywords that suggest a date-bearing column.
var dateNameKeywords = []string{
	"date", "month_year", "mnth_yr", "monthyr", "yr_mo", "yyyymm",
	"period_start", "period_end", "time",
}

// Looser keyword set used by the compact yyyymm scan.
var timeishNameKeywords = []string{"time", "month", "date", "yyyymm", "yrmo"}

var yearAliases = []string{"year", "yr"}
var monthAliases = []string{"month", "mo", "mnth", "mth"}

// EnsurePeriod resolves a canonical month-start "period" column from whatever
// time representation the table provides. Strategies are tried in order and
// the first success wins:
//
//  1. an existing "period" column with at least one parseable value,
//  2. a column whose name contains a date keyword, at >=60% parse rate,
//  3. separate year and month columns combined with day fixed to 1,
//  4. a time-ish named column holding compact yyyymm values, at >=60%,
//  5. brute force over every column, best parse ratio wins at >=60%.
//
// If nothing succeeds the table is rejected with an error naming the columns
// that were available.
func EnsurePeriod(t *Table) (*Table, error) {
	out := t.Clone()

	// Strategy 1: honor an explicit period column if anything parses at all.
	if out.HasColumn("period") {
		parsed, count := parseDateColumn(out, "period")
		if count > 0 {
			writePeriod(out, parsed)
			return out, nil
		}
	}

	// Strategy 2: date-like column names, graduated threshold.
	for _, col := range out.Columns {
		if col == "period" || !nameContainsAny(col, dateNameKeywords) {
			continue
		}
		parsed, count := parseDateColumn(out, col)
		if ratio(count, len(out.Rows)) >= parseRatioThreshold {
			writePeriod(out, parsed)
			return out, nil
		}
	}

	// Strategy 3: separate year and month columns.
	yearCol := pickColumn(out, yearAliases)
	monthCol := pickColumn(out, monthAliases)
	if yearCol != "" && monthCol != "" {
		parsed := make([]interface{}, len(out.Rows))
		for i, row := range out.Rows {
			y, okY := CellFloat(row[yearCol])
			m, okM := parseMonthCell(row[monthCol])
			if okY && okM {
				parsed[i] = time.Date(int(y), m, 1, 0, 0, 0, 0, time.UTC)
			}
		}
		writePeriod(out, parsed)
		return out, nil
	}

	// Strategy 4: compact yyyymm values in a time-ish named column.
	for _, col := range out.Columns {
		if col == "period" || !nameContainsAny(col, timeishNameKeywords) {
			continue
		}
		parsed := make([]interface{}, len(out.Rows))
		count := 0
		for i, row := range out.Rows {
			s := compactDigits(CellString(row[col]))
			if len(s) == 6 {
				s = s[:4] + "-" + s[4:]
			}
			if ts, ok := parseDate(s); ok {
				parsed[i] = MonthStart(ts)
				count++
			}
		}
		if ratio(count, len(out.Rows)) >= parseRatioThreshold {
			writePeriod(out, parsed)
			return out, nil
		}
	}

	// Strategy 5: brute force, best parse ratio wins.
	bestCount := 0
	var bestParsed []interface{}
	for _, col := range out.Columns {
		parsed, count := parseDateColumn(out, col)
		if ratio(count, len(out.Rows)) >= parseRatioThreshold && count > bestCount {
			bestCount = count
			bestParsed = parsed
		}
	}
	if bestParsed != nil {
		writePeriod(out, bestParsed)
		return out, nil
	}

	return nil, apperrors.NewParsingError(
		fmt.Sprintf("expected a recognizable time column (date/year+month/period); found columns: %s",
			strings.Join(out.Columns, ", ")), nil)
}

// parseDateColumn bulk-parses a column as dates truncated to month start.
// Unparseable cells become nil. The second return is the parsed count.
func parseDateColumn(t *Table, col string) ([]interface{}, int) {
	parsed := make([]interface{}, len(t.Rows))
	count := 0
	for i, row := range t.Rows {
		if ts, ok := parseDateCell(row[col]); ok {
			parsed[i] = MonthStart(ts)
			count++
		}
	}
	return parsed, count
}

func writePeriod(t *Table, parsed []interface{}) {
	t.AddColumn("period")
	for i, row := range t.Rows {
		row["period"] = parsed[i]
	}
}

func parseDateCell(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return parseDate(x)
	default:
		return time.Time{}, false
	}
}

// dateLayouts covers the date representations seen in spreadsheet exports.
// Tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
	"2006/01",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2006",
	"January 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	// Month names in arbitrary case ("june 2025", "SEPT 2024").
	if ts, ok := parseMonthYearText(s); ok {
		return ts, true
	}
	return time.Time{}, false
}

var monthYearPattern = regexp.MustCompile(`^([a-zA-Z]+)[\s,]+(\d{4})$`)

func parseMonthYearText(s string) (time.Time, bool) {
	m := monthYearPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthByName(m[1])
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// parseMonthCell accepts numeric months (1-12) and month names ("Mar").
func parseMonthCell(v interface{}) (time.Month, bool) {
	if f, ok := CellFloat(v); ok {
		m := int(f)
		if m >= 1 && m <= 12 {
			return time.Month(m), true
		}
		return 0, false
	}
	return monthByName(CellString(v))
}

func monthByName(name string) (time.Month, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	if len(s) < 3 {
		return 0, false
	}
	prefix := s[:3]
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if s == full || prefix == full[:3] {
			return m, true
		}
	}
	return 0, false
}

// ParsePeriodText parses free text like "June 2025" into a month-start
// period, for query parameters and intent phrases.
func ParsePeriodText(text string) (time.Time, error) {
	if ts, ok := parseDate(text); ok {
		return MonthStart(ts), nil
	}
	return time.Time{}, apperrors.NewValidationError(
		fmt.Sprintf("could not parse %q as a month", text), nil)
}

var nonDigitPattern = regexp.MustCompile(`[^0-9]`)

// compactDigits strips everything but digits so that values like "2025/06"
// or "202506.0" reduce to their digit run.
func compactDigits(s string) string {
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	return nonDigitPattern.ReplaceAllString(s, "")
}

func nameContainsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

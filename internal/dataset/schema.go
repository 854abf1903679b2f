package dataset

import (
	"strings"
)

// Alias lists for canonical columns, tried in order. First present wins.
var (
	accountAliases = []string{
		"account", "account_name", "gl_account", "line_item", "line", "category",
		"acct", "name", "acct_name", "account_title", "account_category",
	}
	amountAliases = []string{
		"amount", "value", "usd", "total", "amount_usd", "net", "balance", "amt",
	}
	currencyAliases = []string{"currency", "ccy", "curr", "fx"}
	entityAliases   = []string{"entity", "company", "business_unit", "bu", "org", "division"}
)

// rateColumns are never picked up as an amount fallback.
var rateColumns = map[string]bool{"rate": true, "rate_to_usd": true}

// NormalizeSchema maps arbitrary input column names onto the canonical set
// account/amount/currency/entity where derivable. Column names are first
// lower-cased and snake-cased. Original columns are kept; a canonical column
// is only written when it does not already exist. The amount column is
// coerced to numeric, with unparseable values becoming null rather than an
// error. Absence of any canonical source column is tolerated.
func NormalizeSchema(t *Table) *Table {
	out := t.Clone()
	normalizeColumnNames(out)

	accountCol := pickColumn(out, accountAliases)
	amountCol := pickColumn(out, amountAliases)
	currencyCol := pickColumn(out, currencyAliases)
	entityCol := pickColumn(out, entityAliases)

	// No amount alias matched: fall back to the first numeric column that is
	// not an FX rate column.
	if amountCol == "" {
		for _, col := range out.Columns {
			if rateColumns[col] {
				continue
			}
			if out.IsNumericColumn(col) {
				amountCol = col
				break
			}
		}
	}

	if accountCol != "" && !out.HasColumn("account") {
		copyColumn(out, accountCol, "account")
	}
	if amountCol != "" && !out.HasColumn("amount") {
		out.AddColumn("amount")
		for _, row := range out.Rows {
			if f, ok := CellFloat(row[amountCol]); ok {
				row["amount"] = f
			} else {
				row["amount"] = nil
			}
		}
	}
	if currencyCol != "" && !out.HasColumn("currency") {
		copyColumn(out, currencyCol, "currency")
	}
	if entityCol != "" && !out.HasColumn("entity") {
		copyColumn(out, entityCol, "entity")
	}

	return out
}

// normalizeColumnNames trims, lower-cases and snake-cases every column name.
func normalizeColumnNames(t *Table) {
	renamed := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		renamed[i] = SnakeCase(col)
	}
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if col == renamed[i] {
				continue
			}
			row[renamed[i]] = row[col]
			delete(row, col)
		}
	}
	t.Columns = renamed
}

// SnakeCase converts a column name to lower snake case.
func SnakeCase(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func pickColumn(t *Table, candidates []string) string {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}

func copyColumn(t *Table, from, to string) {
	t.AddColumn(to)
	for _, row := range t.Rows {
		row[to] = row[from]
	}
}

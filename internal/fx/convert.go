// Package fx converts normalized record sets to USD using a monthly FX rate
// table keyed by (period, currency).
package fx

import (
	"fmt"
	"strings"
	"time"

	"finsight/internal/dataset"
	apperrors "finsight/internal/errors"
	"finsight/pkg/contracts/domain"
)

type rateKey struct {
	period   time.Time
	currency string
}

// Convert augments a normalized table with rate_to_usd and amount_usd
// columns. Missing currency defaults to USD. Rows whose (period, currency)
// pair has no FX entry keep the amount as-is with a rate of 1.0 rather than
// being dropped. Unparseable amounts convert to zero.
//
// The FX table must contain a currency column and either rate_to_usd or
// rate; otherwise conversion fails.
func Convert(t *dataset.Table, fxTable *dataset.Table) (*dataset.Table, error) {
	out := t.Clone()

	if !out.HasColumn("currency") {
		out.AddColumn("currency")
		for _, row := range out.Rows {
			row["currency"] = "USD"
		}
	}

	rates, err := rateIndex(fxTable)
	if err != nil {
		return nil, err
	}

	amountCol, err := resolveAmountColumn(out)
	if err != nil {
		return nil, err
	}

	out.AddColumn("rate_to_usd")
	out.AddColumn("amount_usd")
	for _, row := range out.Rows {
		rate := 1.0
		period, _ := dataset.CellTime(row["period"])
		currency := normalizeCurrency(row["currency"])
		if currency == "" {
			currency = "USD"
			row["currency"] = currency
		}
		if r, ok := rates[rateKey{period, currency}]; ok {
			rate = r
		}
		row["rate_to_usd"] = rate

		amount, ok := dataset.CellFloat(row[amountCol])
		if !ok {
			amount = 0
		}
		row["amount_usd"] = amount * rate
	}

	return out, nil
}

// Records flattens a converted table into canonical records.
func Records(t *dataset.Table) []domain.Record {
	records := make([]domain.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		period, _ := dataset.CellTime(row["period"])
		amount, _ := dataset.CellFloat(row["amount"])
		rate, _ := dataset.CellFloat(row["rate_to_usd"])
		usd, _ := dataset.CellFloat(row["amount_usd"])
		records = append(records, domain.Record{
			Period:    period,
			Account:   dataset.CellString(row["account"]),
			Entity:    dataset.CellString(row["entity"]),
			Currency:  normalizeCurrency(row["currency"]),
			Amount:    amount,
			RateToUSD: rate,
			AmountUSD: usd,
		})
	}
	return records
}

// rateIndex builds the (period, currency) -> rate lookup. Whichever of
// rate_to_usd and rate is present serves as the rate source.
func rateIndex(fxTable *dataset.Table) (map[rateKey]float64, error) {
	rateCol := ""
	switch {
	case fxTable.HasColumn("rate_to_usd"):
		rateCol = "rate_to_usd"
	case fxTable.HasColumn("rate"):
		rateCol = "rate"
	default:
		return nil, apperrors.NewValidationError(
			"FX table must include a rate_to_usd or rate column", nil)
	}
	if !fxTable.HasColumn("currency") {
		return nil, apperrors.NewValidationError(
			"FX table must include a currency column", nil)
	}

	rates := make(map[rateKey]float64, len(fxTable.Rows))
	for _, row := range fxTable.Rows {
		period, ok := dataset.CellTime(row["period"])
		if !ok {
			continue
		}
		currency := normalizeCurrency(row["currency"])
		rate, ok := dataset.CellFloat(row[rateCol])
		if !ok {
			continue
		}
		rates[rateKey{period, currency}] = rate
	}
	return rates, nil
}

// resolveAmountColumn picks the canonical amount column, falling back to the
// first non-rate numeric column when absent.
func resolveAmountColumn(t *dataset.Table) (string, error) {
	if t.HasColumn("amount") {
		return "amount", nil
	}
	for _, col := range t.Columns {
		if col == "rate_to_usd" || col == "rate" {
			continue
		}
		if t.IsNumericColumn(col) {
			return col, nil
		}
	}
	return "", apperrors.NewValidationError(
		fmt.Sprintf("no amount-like numeric column found for FX conversion; columns: %s",
			strings.Join(t.Columns, ", ")), nil)
}

func normalizeCurrency(v interface{}) string {
	return strings.ToUpper(strings.TrimSpace(dataset.CellString(v)))
}

package fx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/dataset"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func newFXTable(rows ...dataset.Row) *dataset.Table {
	t := dataset.NewTable([]string{"period", "currency", "rate_to_usd"})
	t.Rows = append(t.Rows, rows...)
	return t
}

func newActualsTable(rows ...dataset.Row) *dataset.Table {
	t := dataset.NewTable([]string{"period", "account", "amount", "currency"})
	t.Rows = append(t.Rows, rows...)
	return t
}

func TestConvert_AppliesRate(t *testing.T) {
	fxTable := newFXTable(
		dataset.Row{"period": month(2025, time.June), "currency": "EUR", "rate_to_usd": 1.1},
	)
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 1000.0, "currency": "EUR"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	assert.Equal(t, 1.1, out.Rows[0]["rate_to_usd"])
	assert.InDelta(t, 1100.0, out.Rows[0]["amount_usd"].(float64), 1e-9)
}

func TestConvert_MissingRateDefaultsToOne(t *testing.T) {
	fxTable := newFXTable(
		dataset.Row{"period": month(2025, time.June), "currency": "EUR", "rate_to_usd": 1.1},
	)
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.July), "account": "Revenue", "amount": 500.0, "currency": "EUR"},
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 500.0, "currency": "GBP"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	// No (period, currency) match: rows survive at rate 1.0.
	for _, row := range out.Rows {
		assert.Equal(t, 1.0, row["rate_to_usd"])
		assert.Equal(t, 500.0, row["amount_usd"])
	}
}

func TestConvert_MissingCurrencyDefaultsToUSD(t *testing.T) {
	fxTable := newFXTable()
	in := dataset.NewTable([]string{"period", "account", "amount"})
	in.Rows = append(in.Rows,
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 250.0},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	assert.Equal(t, "USD", out.Rows[0]["currency"])
	assert.Equal(t, 250.0, out.Rows[0]["amount_usd"])
}

func TestConvert_CurrencyCaseInsensitive(t *testing.T) {
	fxTable := newFXTable(
		dataset.Row{"period": month(2025, time.June), "currency": "eur", "rate_to_usd": 1.1},
	)
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 100.0, "currency": "EUR "},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	assert.Equal(t, 1.1, out.Rows[0]["rate_to_usd"])
}

func TestConvert_UnparseableAmountBecomesZero(t *testing.T) {
	fxTable := newFXTable()
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": nil, "currency": "USD"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.Rows[0]["amount_usd"])
}

func TestConvert_LegacyRateColumn(t *testing.T) {
	fxTable := dataset.NewTable([]string{"period", "currency", "rate"})
	fxTable.Rows = append(fxTable.Rows,
		dataset.Row{"period": month(2025, time.June), "currency": "EUR", "rate": 1.2},
	)
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 100.0, "currency": "EUR"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, out.Rows[0]["amount_usd"].(float64), 1e-9)
}

func TestConvert_FXTableWithoutRateColumn(t *testing.T) {
	fxTable := dataset.NewTable([]string{"period", "currency"})
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 100.0, "currency": "EUR"},
	)

	_, err := Convert(in, fxTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_to_usd or rate")
}

func TestConvert_RoundTripConsistency(t *testing.T) {
	fxTable := newFXTable(
		dataset.Row{"period": month(2025, time.June), "currency": "EUR", "rate_to_usd": 1.0834},
		dataset.Row{"period": month(2025, time.June), "currency": "GBP", "rate_to_usd": 1.2711},
	)
	in := newActualsTable(
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "amount": 98765.43, "currency": "EUR"},
		dataset.Row{"period": month(2025, time.June), "account": "COGS", "amount": 12345.67, "currency": "GBP"},
		dataset.Row{"period": month(2025, time.June), "account": "Opex:Tools", "amount": 777.0, "currency": "USD"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	for _, row := range out.Rows {
		amount := row["amount"].(float64)
		rate := row["rate_to_usd"].(float64)
		usd := row["amount_usd"].(float64)
		assert.InDelta(t, amount*rate, usd, 1e-2)
	}
}

func TestRecords(t *testing.T) {
	fxTable := newFXTable(
		dataset.Row{"period": month(2025, time.June), "currency": "EUR", "rate_to_usd": 1.1},
	)
	in := dataset.NewTable([]string{"period", "account", "entity", "amount", "currency"})
	in.Rows = append(in.Rows,
		dataset.Row{"period": month(2025, time.June), "account": "Revenue", "entity": "EMEA", "amount": 1000.0, "currency": "EUR"},
	)

	out, err := Convert(in, fxTable)
	require.NoError(t, err)

	records := Records(out)
	require.Len(t, records, 1)
	assert.Equal(t, "Revenue", records[0].Account)
	assert.Equal(t, "EMEA", records[0].Entity)
	assert.Equal(t, "EUR", records[0].Currency)
	assert.Equal(t, 1000.0, records[0].Amount)
	assert.InDelta(t, 1100.0, records[0].AmountUSD, 1e-9)
}

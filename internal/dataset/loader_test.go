package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFixture(t, "actuals.csv",
		"month,entity,account_category,amount,currency\n"+
			"2025-06,ParentCo,Revenue,100000,USD\n"+
			"2025-06,EMEA,COGS,40000,EUR\n")

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"month", "entity", "account_category", "amount", "currency"}, table.Columns)
	require.Len(t, table.Rows, 2)
	// amount is uniformly numeric, so it is inferred as float64.
	assert.Equal(t, 100000.0, table.Rows[0]["amount"])
	assert.Equal(t, "EUR", table.Rows[1]["currency"])
}

func TestLoad_TSV(t *testing.T) {
	path := writeFixture(t, "budget.tsv", "period\tamount\n2025-06\t90000\n")

	table, err := Load(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, 90000.0, table.Rows[0]["amount"])
}

func TestLoad_EmptyCellsBecomeNull(t *testing.T) {
	path := writeFixture(t, "cash.csv", "month,cash_usd\n2025-06,\n2025-07,500000\n")

	table, err := Load(path)
	require.NoError(t, err)

	assert.Nil(t, table.Rows[0]["cash_usd"])
	assert.Equal(t, 500000.0, table.Rows[1]["cash_usd"])
}

func TestLoad_MixedColumnStaysText(t *testing.T) {
	path := writeFixture(t, "mixed.csv", "ref,amount\nA-1,100\n42,200\n")

	table, err := Load(path)
	require.NoError(t, err)

	// One non-numeric cell keeps the whole column textual.
	assert.Equal(t, "A-1", table.Rows[0]["ref"])
	assert.Equal(t, "42", table.Rows[1]["ref"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestLoad_RaggedRowsTolerated(t *testing.T) {
	path := writeFixture(t, "ragged.csv", "a,b,c\n1,2\n3,4,5\n")

	table, err := Load(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Nil(t, table.Rows[0]["c"])
	assert.Equal(t, 5.0, table.Rows[1]["c"])
}

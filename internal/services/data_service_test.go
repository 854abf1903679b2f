package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/dataset"
)

func TestDataService_LoadTables(t *testing.T) {
	svc := NewDataService(writeFixtures(t), testLogger())

	tables, err := svc.LoadTables(context.Background())
	require.NoError(t, err)

	require.NotNil(t, tables.Actuals)
	require.NotNil(t, tables.Budget)
	require.NotNil(t, tables.FX)
	require.NotNil(t, tables.Cash)

	assert.Len(t, tables.Actuals.Rows, 8)
	assert.Len(t, tables.Budget.Rows, 3)
	assert.Len(t, tables.FX.Rows, 3)
	assert.Len(t, tables.Cash.Rows, 2)

	// normalization ran on every table
	for _, table := range []*dataset.Table{tables.Actuals, tables.Budget, tables.FX, tables.Cash} {
		assert.True(t, table.HasColumn("period"))
	}
}

func TestDataService_LoadTables_MissingFile(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.Budget = "absent.csv"

	_, err := NewDataService(cfg, testLogger()).LoadTables(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget")
}

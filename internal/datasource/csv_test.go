package datasource

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscreen/internal/contracts"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVSource_Symbols(t *testing.T) {
	fsDir := t.TempDir()
	writeFile(t, fsDir, "005930.csv", "date,revenue,op_margin\n")
	writeFile(t, fsDir, "000660.csv", "date,revenue,op_margin\n")
	writeFile(t, fsDir, "notes.txt", "ignored")

	src := NewCSVSource(fsDir, t.TempDir())
	symbols, err := src.Symbols(context.Background())
	require.NoError(t, err)

	// sorted, non-CSV files ignored
	assert.Equal(t, []string{"000660", "005930"}, symbols)
}

func TestCSVSource_Fundamentals(t *testing.T) {
	fsDir := t.TempDir()
	writeFile(t, fsDir, "005930.csv",
		"date,revenue,op_margin\n"+
			"2024-06-30,120e8,20e8\n"+
			"2024-03-31,110e8,\n"+
			"2023-06-30,100e8,15e8\n")

	src := NewCSVSource(fsDir, t.TempDir())
	records, err := src.Fundamentals(context.Background(), "005930")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, 2, records[0].Quarter)
	assert.Equal(t, 120e8, records[0].Revenue)

	// blank op_margin becomes NaN, record kept
	assert.Equal(t, 1, records[1].Quarter)
	assert.True(t, math.IsNaN(records[1].OpMargin))
	assert.Equal(t, 110e8, records[1].Revenue)
}

func TestCSVSource_KoreanDateHeader(t *testing.T) {
	fsDir := t.TempDir()
	writeFile(t, fsDir, "005930.csv",
		"날짜,revenue,op_margin\n"+
			"2024-12-31,100,10\n")

	src := NewCSVSource(fsDir, t.TempDir())
	records, err := src.Fundamentals(context.Background(), "005930")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].Quarter)
}

func TestCSVSource_MarketCaps(t *testing.T) {
	msDir := t.TempDir()
	writeFile(t, msDir, "005930_d.csv",
		"date,market_cap\n"+
			"2024-08-01,4.5e14\n"+
			"2024-08-02,4.6e14\n")

	src := NewCSVSource(t.TempDir(), msDir)
	caps, err := src.MarketCaps(context.Background(), "005930")
	require.NoError(t, err)
	require.Len(t, caps, 2)

	latest, ok := contracts.LatestMarketCap(caps)
	require.True(t, ok)
	assert.Equal(t, 4.6e14, latest.Value)
}

func TestCSVSource_MissingMarketCapFile(t *testing.T) {
	src := NewCSVSource(t.TempDir(), t.TempDir())
	_, err := src.MarketCaps(context.Background(), "005930")
	assert.ErrorIs(t, err, contracts.ErrNoMarketCap)
}

func TestCSVSource_MissingColumn(t *testing.T) {
	fsDir := t.TempDir()
	writeFile(t, fsDir, "X.csv", "date,revenue\n2024-06-30,100\n")

	src := NewCSVSource(fsDir, t.TempDir())
	_, err := src.Fundamentals(context.Background(), "X")
	assert.Error(t, err)
}

package datasource

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscreen/internal/contracts"
)

// testPool connects to the database from DATABASE_URL. Integration tests are
// skipped in -short mode and when no database is configured.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestFundamentalRepository_SaveAndRead(t *testing.T) {
	pool := testPool(t)
	repo := NewFundamentalRepository(pool)
	ctx := context.Background()

	f := &contracts.Fundamental{
		Symbol:   "TEST999",
		Date:     time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Revenue:  120e8,
		OpMargin: 20e8,
	}
	require.NoError(t, repo.Save(ctx, f))

	// Upsert: saving again must not duplicate
	f.Revenue = 130e8
	require.NoError(t, repo.Save(ctx, f))

	records, err := repo.Fundamentals(ctx, "TEST999")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, 2, records[0].Quarter)
	assert.Equal(t, 130e8, records[0].Revenue)

	_, err = pool.Exec(ctx, "DELETE FROM data.fundamentals WHERE symbol = $1", "TEST999")
	require.NoError(t, err)
}

func TestMarketCapRepository_MissingSymbol(t *testing.T) {
	pool := testPool(t)
	repo := NewMarketCapRepository(pool)

	_, err := repo.MarketCaps(context.Background(), "NOSUCH99")
	assert.ErrorIs(t, err, contracts.ErrNoMarketCap)
}

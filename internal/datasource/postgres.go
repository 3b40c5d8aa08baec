package datasource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/growthscreen/internal/contracts"
)

// FundamentalRepository persists quarterly fundamentals in PostgreSQL
// ⭐ SSOT: 재무 데이터 저장소는 여기서만
type FundamentalRepository struct {
	pool *pgxpool.Pool
}

// NewFundamentalRepository creates a new fundamental repository
func NewFundamentalRepository(pool *pgxpool.Pool) *FundamentalRepository {
	return &FundamentalRepository{pool: pool}
}

// Symbols lists every symbol with fundamentals, sorted ascending.
func (r *FundamentalRepository) Symbols(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM data.fundamentals
		ORDER BY symbol ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Fundamentals retrieves all quarterly records for a symbol, newest first.
// NULL revenue or op_margin columns scan to NaN via pgx float8 NULL handling
// done in SQL (COALESCE to 'NaN').
func (r *FundamentalRepository) Fundamentals(ctx context.Context, symbol string) ([]contracts.Fundamental, error) {
	query := `
		SELECT symbol, report_date,
		       EXTRACT(YEAR FROM report_date)::int,
		       EXTRACT(QUARTER FROM report_date)::int,
		       COALESCE(revenue, 'NaN'::float8),
		       COALESCE(op_margin, 'NaN'::float8)
		FROM data.fundamentals
		WHERE symbol = $1
		ORDER BY report_date DESC
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query fundamentals: %w", err)
	}
	defer rows.Close()

	var records []contracts.Fundamental
	for rows.Next() {
		var f contracts.Fundamental
		if err := rows.Scan(&f.Symbol, &f.Date, &f.Year, &f.Quarter, &f.Revenue, &f.OpMargin); err != nil {
			return nil, err
		}
		records = append(records, f)
	}
	return records, rows.Err()
}

// Save upserts a single quarterly record.
func (r *FundamentalRepository) Save(ctx context.Context, f *contracts.Fundamental) error {
	query := `
		INSERT INTO data.fundamentals (symbol, report_date, revenue, op_margin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, report_date) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			op_margin = EXCLUDED.op_margin
	`

	_, err := r.pool.Exec(ctx, query, f.Symbol, f.Date, f.Revenue, f.OpMargin)
	return err
}

// SaveBatch upserts multiple quarterly records.
func (r *FundamentalRepository) SaveBatch(ctx context.Context, fs []*contracts.Fundamental) error {
	for _, f := range fs {
		if err := r.Save(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// MarketCapRepository persists market cap records in PostgreSQL
// ⭐ SSOT: 시가총액 저장소는 여기서만
type MarketCapRepository struct {
	pool *pgxpool.Pool
}

// NewMarketCapRepository creates a new market cap repository
func NewMarketCapRepository(pool *pgxpool.Pool) *MarketCapRepository {
	return &MarketCapRepository{pool: pool}
}

// MarketCaps retrieves a symbol's market cap series, newest first.
// Returns contracts.ErrNoMarketCap when the symbol has no rows.
func (r *MarketCapRepository) MarketCaps(ctx context.Context, symbol string) ([]contracts.MarketCap, error) {
	query := `
		SELECT symbol, trade_date, market_cap
		FROM data.market_caps
		WHERE symbol = $1
		ORDER BY trade_date DESC
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query market caps: %w", err)
	}
	defer rows.Close()

	var caps []contracts.MarketCap
	for rows.Next() {
		var mc contracts.MarketCap
		if err := rows.Scan(&mc.Symbol, &mc.Date, &mc.Value); err != nil {
			return nil, err
		}
		caps = append(caps, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		return nil, contracts.ErrNoMarketCap
	}
	return caps, nil
}

// Save upserts a single market cap record.
func (r *MarketCapRepository) Save(ctx context.Context, mc *contracts.MarketCap) error {
	query := `
		INSERT INTO data.market_caps (symbol, trade_date, market_cap)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			market_cap = EXCLUDED.market_cap
	`

	_, err := r.pool.Exec(ctx, query, mc.Symbol, mc.Date, mc.Value)
	return err
}

// SaveBatch upserts multiple market cap records.
func (r *MarketCapRepository) SaveBatch(ctx context.Context, mcs []*contracts.MarketCap) error {
	for _, mc := range mcs {
		if err := r.Save(ctx, mc); err != nil {
			return err
		}
	}
	return nil
}

// DBSource bundles the two repositories behind the screening source
// interfaces.
type DBSource struct {
	*FundamentalRepository
	*MarketCapRepository
}

// NewDBSource creates a database-backed screening source.
func NewDBSource(pool *pgxpool.Pool) *DBSource {
	return &DBSource{
		FundamentalRepository: NewFundamentalRepository(pool),
		MarketCapRepository:   NewMarketCapRepository(pool),
	}
}

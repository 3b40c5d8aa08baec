package contracts

import "context"

// ⭐ SSOT: 데이터 소스 인터페이스 정의는 여기서만

// FundamentalsSource lists screenable symbols and serves their quarterly
// fundamentals. Symbols must return a deterministic order (implementations
// sort ascending); the screening pipeline iterates and tie-breaks in that
// order.
type FundamentalsSource interface {
	Symbols(ctx context.Context) ([]string, error)
	Fundamentals(ctx context.Context, symbol string) ([]Fundamental, error)
}

// MarketCapSource serves a symbol's market cap series. Implementations
// return ErrNoMarketCap when the symbol has no series at all.
type MarketCapSource interface {
	MarketCaps(ctx context.Context, symbol string) ([]MarketCap, error)
}

// FundamentalRepository persists quarterly fundamentals.
type FundamentalRepository interface {
	Save(ctx context.Context, f *Fundamental) error
	SaveBatch(ctx context.Context, fs []*Fundamental) error
}

// MarketCapRepository persists market cap records.
type MarketCapRepository interface {
	Save(ctx context.Context, mc *MarketCap) error
	SaveBatch(ctx context.Context, mcs []*MarketCap) error
}

package screening

import (
	"sort"

	"github.com/wonny/growthscreen/internal/contracts"
)

// Rank orders accepted symbols by market capitalization ascending (smallest
// first) and truncates to count. The sort is stable: ties keep the symbol
// iteration order of the data source.
func Rank(accepted []contracts.ScreenedStock, count int) []contracts.ScreenedStock {
	ranked := make([]contracts.ScreenedStock, len(accepted))
	copy(ranked, accepted)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MarketCap < ranked[j].MarketCap
	})

	if count < 0 {
		count = 0
	}
	if count > len(ranked) {
		count = len(ranked)
	}
	return ranked[:count]
}

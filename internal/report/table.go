package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wonny/growthscreen/internal/contracts"
)

// Missing is rendered for growth entries that were never computed.
const Missing = "missing"

// Table renders ranked screening results as a fixed-width text table.
func Table(ranked []contracts.ScreenedStock) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-10s %10s %10s %10s %10s %18s\n",
		"Symbol", "Rev_G1(%)", "Rev_G2(%)", "OpM_G1(%)", "OpM_G2(%)", "MarketCap"))

	for _, stock := range ranked {
		b.WriteString(fmt.Sprintf("%-10s %10s %10s %10s %10s %18s\n",
			stock.Symbol,
			fmtGrowth(stock.RevG1),
			fmtGrowth(stock.RevG2),
			fmtGrowth(stock.OpMG1),
			fmtGrowth(stock.OpMG2),
			fmtMarketCap(stock.MarketCap),
		))
	}

	return b.String()
}

// fmtGrowth renders a percentage to 2 decimal places, or the missing marker.
func fmtGrowth(v float64) string {
	if math.IsNaN(v) {
		return Missing
	}
	return fmt.Sprintf("%.2f", v)
}

// fmtMarketCap renders with thousands separators and one decimal place.
func fmtMarketCap(v float64) string {
	return humanize.CommafWithDigits(v, 1)
}

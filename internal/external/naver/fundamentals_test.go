package naver

import (
	"math"
	"testing"
)

const sampleHTML = `
<html><body>
<div class="cop_analysis">
  <table class="tb_type1 tb_num tb_type1_ifrs">
    <thead>
      <tr>
        <th>주요재무정보</th>
        <th colspan="2">최근 연간 실적</th>
        <th colspan="4">최근 분기 실적</th>
      </tr>
      <tr>
        <th>2023.12</th><th>2024.12</th>
        <th>2024.09</th><th>2024.12</th><th>2025.03</th><th>2025.06(E)</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <th>매출액</th>
        <td>2,589,355</td><td>3,022,314</td>
        <td>790,987</td><td>757,883</td><td>-</td><td>820,000</td>
      </tr>
      <tr>
        <th>영업이익</th>
        <td>65,670</td><td>327,260</td>
        <td>91,834</td><td>65,007</td><td>66,853</td><td>90,000</td>
      </tr>
    </tbody>
  </table>
</div>
</body></html>`

func TestParseFundamentalsHTML(t *testing.T) {
	records, err := parseFundamentalsHTML(sampleHTML, "005930")
	if err != nil {
		t.Fatalf("parseFundamentalsHTML() error = %v", err)
	}

	// 3 realized quarters; the (E) estimate column is dropped
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.Year != 2024 || first.Quarter != 3 {
		t.Errorf("first record = %d Q%d, want 2024 Q3", first.Year, first.Quarter)
	}
	if first.Revenue != 790987e8 {
		t.Errorf("first revenue = %f, want %f", first.Revenue, 790987e8)
	}
	if first.OpMargin != 91834e8 {
		t.Errorf("first op margin = %f, want %f", first.OpMargin, 91834e8)
	}

	// blank revenue cell becomes NaN, record kept
	third := records[2]
	if third.Year != 2025 || third.Quarter != 1 {
		t.Errorf("third record = %d Q%d, want 2025 Q1", third.Year, third.Quarter)
	}
	if !math.IsNaN(third.Revenue) {
		t.Errorf("third revenue = %f, want NaN", third.Revenue)
	}
	if third.OpMargin != 66853e8 {
		t.Errorf("third op margin = %f, want %f", third.OpMargin, 66853e8)
	}
}

func TestParseFundamentalsHTML_NoTable(t *testing.T) {
	_, err := parseFundamentalsHTML("<html><body></body></html>", "005930")
	if err == nil {
		t.Fatal("expected error for page without summary table")
	}
}

func TestParseMarketCap(t *testing.T) {
	mc, err := parseMarketCap(RankingStockItem{
		ItemCode:  "005930",
		ItemName:  "삼성전자",
		MarketSum: "4,420,523",
	})
	if err != nil {
		t.Fatalf("parseMarketCap() error = %v", err)
	}
	if mc.Symbol != "005930" {
		t.Errorf("symbol = %s, want 005930", mc.Symbol)
	}
	if mc.Value != 4420523e8 {
		t.Errorf("value = %f, want %f", mc.Value, 4420523e8)
	}
}

func TestParseMarketCap_Invalid(t *testing.T) {
	_, err := parseMarketCap(RankingStockItem{ItemCode: "X", MarketSum: "n/a"})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

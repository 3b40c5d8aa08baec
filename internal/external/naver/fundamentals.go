package naver

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/growthscreen/internal/contracts"
)

var periodLabelRe = regexp.MustCompile(`^(\d{4})\.(\d{2})$`)

// FetchFundamentals scrapes quarterly revenue and operating profit from the
// 기업실적분석 table on a symbol's Naver Finance page. Only realized
// quarters are returned; estimate columns, marked (E), are dropped.
// ⭐ SSOT: 분기 실적 스크래핑은 이 함수에서만
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) ([]contracts.Fundamental, error) {
	url := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, symbol)

	html, err := c.fetchHTML(ctx, url)
	if err != nil {
		return nil, err
	}

	records, err := parseFundamentalsHTML(html, symbol)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(records),
	}).Debug("Fetched fundamentals")
	return records, nil
}

// parseFundamentalsHTML extracts the quarterly columns of the financial
// summary table. The thead's first row splits the columns into annual and
// quarterly blocks via colspan; the quarterly block is the tail.
func parseFundamentalsHTML(html, symbol string) ([]contracts.Fundamental, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("div.cop_analysis table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("financial summary table not found for %s", symbol)
	}

	headRows := table.Find("thead tr")
	if headRows.Length() < 2 {
		return nil, fmt.Errorf("unexpected table header for %s", symbol)
	}

	// colspan of the 분기 block
	quarterCols := 0
	headRows.First().Find("th").Each(func(i int, th *goquery.Selection) {
		if strings.Contains(th.Text(), "분기") {
			if span, ok := th.Attr("colspan"); ok {
				quarterCols, _ = strconv.Atoi(span)
			}
		}
	})
	if quarterCols == 0 {
		return nil, fmt.Errorf("quarterly column block not found for %s", symbol)
	}

	var labels []string
	headRows.Eq(1).Find("th").Each(func(i int, th *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(th.Text()))
	})
	if len(labels) < quarterCols {
		return nil, fmt.Errorf("period labels missing for %s", symbol)
	}
	offset := len(labels) - quarterCols

	revenues := rowValues(table, "매출액")
	margins := rowValues(table, "영업이익")
	if revenues == nil || margins == nil {
		return nil, fmt.Errorf("revenue or operating profit row not found for %s", symbol)
	}

	var records []contracts.Fundamental
	for j := 0; j < quarterCols; j++ {
		label := labels[offset+j]

		// 추정치 컬럼 제외
		if strings.Contains(label, "(E)") {
			continue
		}
		m := periodLabelRe.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])

		// last day of the reporting month
		date := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

		records = append(records, contracts.Fundamental{
			Symbol:   symbol,
			Date:     date,
			Year:     year,
			Quarter:  (month-1)/3 + 1,
			Revenue:  amountOrNaN(revenues, offset+j) * 1e8, // 억원 → 원
			OpMargin: amountOrNaN(margins, offset+j) * 1e8,
		})
	}

	return records, nil
}

// rowValues returns the td texts of the tbody row whose header matches name,
// or nil when no such row exists.
func rowValues(table *goquery.Selection, name string) []string {
	var values []string
	found := false

	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		header := strings.TrimSpace(tr.Find("th").First().Text())
		if !strings.HasPrefix(header, name) {
			return true
		}
		found = true
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			values = append(values, strings.TrimSpace(td.Text()))
		})
		return false
	})

	if !found {
		return nil
	}
	return values
}

// amountOrNaN parses values[i] as a comma-separated amount. Blank cells and
// placeholders become NaN. Note multiplying NaN by 1e8 stays NaN.
func amountOrNaN(values []string, i int) float64 {
	if i >= len(values) {
		return math.NaN()
	}
	s := strings.ReplaceAll(values[i], ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/growthscreen/internal/contracts"
)

// CSVSource reads fundamentals and market caps from two CSV directories:
// fundamentals in <fsDir>/<symbol>.csv with columns date,revenue,op_margin
// and market caps in <msDir>/<symbol>_d.csv with columns date,market_cap.
// The date column header may also be 날짜 (legacy export format).
type CSVSource struct {
	fsDir string
	msDir string
}

// NewCSVSource creates a source over the given directories.
func NewCSVSource(fsDir, msDir string) *CSVSource {
	return &CSVSource{fsDir: fsDir, msDir: msDir}
}

// Symbols lists every symbol with a fundamentals file, sorted ascending.
// The sorted order is the iteration and ranking tie-break order.
func (s *CSVSource) Symbols(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.fsDir)
	if err != nil {
		return nil, fmt.Errorf("read fundamentals dir: %w", err)
	}

	var symbols []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Fundamentals reads a symbol's quarterly records. Blank or unparsable
// numeric cells become NaN (value absent, record kept).
func (s *CSVSource) Fundamentals(ctx context.Context, symbol string) ([]contracts.Fundamental, error) {
	rows, header, err := readCSV(filepath.Join(s.fsDir, symbol+".csv"))
	if err != nil {
		return nil, err
	}

	dateCol, err := findColumn(header, "date", "날짜")
	if err != nil {
		return nil, err
	}
	revCol, err := findColumn(header, "revenue")
	if err != nil {
		return nil, err
	}
	opmCol, err := findColumn(header, "op_margin", "operating_margin")
	if err != nil {
		return nil, err
	}

	records := make([]contracts.Fundamental, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, contracts.Fundamental{
			Symbol:   symbol,
			Date:     date,
			Year:     date.Year(),
			Quarter:  contracts.QuarterOf(date),
			Revenue:  parseFloatOrNaN(row[revCol]),
			OpMargin: parseFloatOrNaN(row[opmCol]),
		})
	}
	return records, nil
}

// MarketCaps reads a symbol's market cap series. A missing file means the
// symbol has no market cap source at all.
func (s *CSVSource) MarketCaps(ctx context.Context, symbol string) ([]contracts.MarketCap, error) {
	path := filepath.Join(s.msDir, symbol+"_d.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, contracts.ErrNoMarketCap
	}

	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	dateCol, err := findColumn(header, "date", "날짜")
	if err != nil {
		return nil, err
	}
	capCol, err := findColumn(header, "market_cap")
	if err != nil {
		return nil, err
	}

	caps := make([]contracts.MarketCap, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[capCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse market_cap: %w", i+2, err)
		}
		caps = append(caps, contracts.MarketCap{
			Symbol: symbol,
			Date:   date,
			Value:  value,
		})
	}
	return caps, nil
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty csv: %s", filepath.Base(path))
	}
	return all[1:], all[0], nil
}

func findColumn(header []string, names ...string) (int, error) {
	for i, col := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("column %q not found", names[0])
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

// parseFloatOrNaN maps blank or non-numeric cells to NaN.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

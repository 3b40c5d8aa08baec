package profile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/growthscreen/internal/screening"
)

// Profile is a named screening configuration loaded from YAML. It drives
// the schedule and serve commands; run flags override it.
type Profile struct {
	Meta      Meta      `yaml:"meta"`
	Screening Screening `yaml:"screening"`
	Schedule  Schedule  `yaml:"schedule"`
}

// Meta identifies the profile
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Screening holds the growth thresholds and floors
type Screening struct {
	MinRevenueGrowthPct float64 `yaml:"min_revenue_growth_pct"`
	MinMarginGrowthPct  float64 `yaml:"min_margin_growth_pct"`
	MinRevenue          float64 `yaml:"min_revenue"`
	MinMargin           float64 `yaml:"min_margin"`
	ResultCount         int     `yaml:"result_count"`
}

// Schedule holds the cron settings for the schedule command
type Schedule struct {
	Cron    string   `yaml:"cron"`    // e.g. "0 30 18 * * MON-FRI"
	Markets []string `yaml:"markets"` // KOSPI, KOSDAQ
}

// Load reads a YAML profile. Unknown fields fail immediately
// (오타/미사용 필드 즉시 실패).
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks required profile values.
func Validate(p *Profile) error {
	if p.Meta.Name == "" {
		return fmt.Errorf("meta.name is required")
	}
	if p.Screening.ResultCount <= 0 {
		return fmt.Errorf("screening.result_count must be positive")
	}
	if p.Screening.MinRevenue < 0 || p.Screening.MinMargin < 0 {
		return fmt.Errorf("screening floors must not be negative")
	}
	return nil
}

// Thresholds converts the screening section into filter thresholds.
func (p *Profile) Thresholds() screening.Thresholds {
	return screening.Thresholds{
		MinRevenueGrowthPct: p.Screening.MinRevenueGrowthPct,
		MinMarginGrowthPct:  p.Screening.MinMarginGrowthPct,
		MinRevenue:          p.Screening.MinRevenue,
		MinMargin:           p.Screening.MinMargin,
	}
}

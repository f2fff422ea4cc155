// Package realprice loads the MOI real-price-registration CSV extract and
// answers regional price-statistics queries over an in-memory snapshot.
package realprice

import "time"

// Unit conversion factors for the MOI source data.
// Prices arrive in NTD and are exposed in 萬元; areas arrive in square
// meters and are exposed in 坪.
const (
	PingPerSqm = 0.3025
	NTDPerWan  = 10000.0
)

// Transaction is one normalized row of the source dataset. All numeric
// fields are already unit-converted at load time so queries never convert.
type Transaction struct {
	Region       string    `json:"region"`
	Date         time.Time `json:"date"`
	EraDate      string    `json:"era_date"`
	Address      string    `json:"address"`
	RoadName     string    `json:"road_name"`
	HouseNumber  int       `json:"house_number"`
	TotalPrice   float64   `json:"total_price"`    // 萬元
	UnitPrice    float64   `json:"unit_price"`     // 萬/坪, TotalPrice ÷ BuildingArea
	BuildingArea float64   `json:"building_area"`  // 坪
	LandArea     float64   `json:"land_area"`      // 坪
	BuildingType string    `json:"building_type"`
	Floor        string    `json:"floor"`
	BuildingAge  string    `json:"building_age"`
}

// Dataset is one immutable parsed snapshot of the source CSV.
// It is replaced wholesale on reload, never mutated in place.
type Dataset struct {
	ID       string        `json:"id"`
	Records  []Transaction `json:"-"`
	Skipped  int           `json:"skipped"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// ProjectGroup clusters transactions sharing the same extracted road name,
// used as a proxy for "the same building project".
type ProjectGroup struct {
	RoadName     string   `json:"road_name"`
	Count        int      `json:"transaction_count"`
	AvgPrice     float64  `json:"avg_price"`
	AvgUnitPrice float64  `json:"avg_unit_price"`
	MinNumber    int      `json:"min_number"`
	MaxNumber    int      `json:"max_number"`
	AddressRange string   `json:"address_range"`
	Addresses    []string `json:"addresses"`
}

// TrendPoint is the mean unit price for one era year-month.
type TrendPoint struct {
	YearMonth    string  `json:"year_month"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// QuerySummary is the aggregator's output for one query. A zero Count with
// empty Groups is a valid "no data for this area" answer, not an error.
type QuerySummary struct {
	Area         string         `json:"area"`
	Period       string         `json:"query_period"`
	Count        int            `json:"total_transactions"`
	AvgPrice     float64        `json:"avg_price"`
	MinPrice     float64        `json:"min_price"`
	MaxPrice     float64        `json:"max_price"`
	AvgUnitPrice float64        `json:"avg_unit_price"`
	MinUnitPrice float64        `json:"min_unit_price"`
	MaxUnitPrice float64        `json:"max_unit_price"`
	Trend        []TrendPoint   `json:"price_trend,omitempty"`
	Groups       []ProjectGroup `json:"project_groups"`
	Stale        bool           `json:"stale"`
	LoadedAt     time.Time      `json:"loaded_at"`
	Skipped      int            `json:"skipped_rows"`
}

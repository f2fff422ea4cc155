package realprice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultWindowYears limits queries to the trailing five years of
// transactions, matching the freshness the dashboard and bot present.
const DefaultWindowYears = 5

// Engine answers price-statistics queries over the Store's snapshot.
type Engine struct {
	store       *Store
	windowYears int
	now         func() time.Time
}

// NewEngine creates an Engine. windowYears < 0 selects the default window;
// 0 disables the window entirely.
func NewEngine(store *Store, windowYears int) *Engine {
	if windowYears < 0 {
		windowYears = DefaultWindowYears
	}
	return &Engine{
		store:       store,
		windowYears: windowYears,
		now:         time.Now,
	}
}

// Query produces a summary for the given region filter. The filter matches
// as a case-sensitive substring against each record's region concatenated
// with its address, so callers may pass a district name or a road name.
// Zero matches is a valid empty summary, not an error.
func (e *Engine) Query(ctx context.Context, area string) (*QuerySummary, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, eris.New("realprice: empty area filter")
	}

	ds, stale, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if e.windowYears > 0 {
		cutoff = e.now().AddDate(-e.windowYears, 0, 0)
	}

	summary := &QuerySummary{
		Area:     area,
		Period:   "N/A",
		Groups:   []ProjectGroup{},
		Stale:    stale,
		LoadedAt: ds.LoadedAt,
		Skipped:  ds.Skipped,
	}

	type groupAccum struct {
		group    ProjectGroup
		priceSum float64
		unitSum  float64
		addrSeen map[string]struct{}
	}
	groups := make(map[string]*groupAccum)
	var groupOrder []string

	trendSum := make(map[string]float64)
	trendCount := make(map[string]int)

	var (
		priceSum, unitSum float64
		minEra, maxEra    string
	)

	for _, tx := range ds.Records {
		if !cutoff.IsZero() && tx.Date.Before(cutoff) {
			continue
		}
		if !strings.Contains(tx.Region+tx.Address, area) {
			continue
		}

		summary.Count++
		priceSum += tx.TotalPrice
		unitSum += tx.UnitPrice

		if summary.Count == 1 {
			summary.MinPrice, summary.MaxPrice = tx.TotalPrice, tx.TotalPrice
			summary.MinUnitPrice, summary.MaxUnitPrice = tx.UnitPrice, tx.UnitPrice
			minEra, maxEra = tx.EraDate, tx.EraDate
		} else {
			summary.MinPrice = min(summary.MinPrice, tx.TotalPrice)
			summary.MaxPrice = max(summary.MaxPrice, tx.TotalPrice)
			summary.MinUnitPrice = min(summary.MinUnitPrice, tx.UnitPrice)
			summary.MaxUnitPrice = max(summary.MaxUnitPrice, tx.UnitPrice)
			minEra = min(minEra, tx.EraDate)
			maxEra = max(maxEra, tx.EraDate)
		}

		if ym := eraYearMonth(tx.EraDate); ym != "" {
			trendSum[ym] += tx.UnitPrice
			trendCount[ym]++
		}

		if tx.RoadName == "" {
			continue // counted in totals, but no group to cluster under
		}
		acc, ok := groups[tx.RoadName]
		if !ok {
			acc = &groupAccum{
				group:    ProjectGroup{RoadName: tx.RoadName, Addresses: []string{}},
				addrSeen: make(map[string]struct{}),
			}
			groups[tx.RoadName] = acc
			groupOrder = append(groupOrder, tx.RoadName)
		}
		acc.group.Count++
		acc.priceSum += tx.TotalPrice
		acc.unitSum += tx.UnitPrice
		if _, dup := acc.addrSeen[tx.Address]; !dup {
			acc.addrSeen[tx.Address] = struct{}{}
			acc.group.Addresses = append(acc.group.Addresses, tx.Address)
		}
		if tx.HouseNumber > 0 {
			if acc.group.MinNumber == 0 || tx.HouseNumber < acc.group.MinNumber {
				acc.group.MinNumber = tx.HouseNumber
			}
			if tx.HouseNumber > acc.group.MaxNumber {
				acc.group.MaxNumber = tx.HouseNumber
			}
		}
	}

	if summary.Count == 0 {
		zap.L().Info("query matched no records", zap.String("area", area))
		return summary, nil
	}

	summary.AvgPrice = priceSum / float64(summary.Count)
	summary.AvgUnitPrice = unitSum / float64(summary.Count)
	summary.Period = fmt.Sprintf("%s ~ %s", minEra, maxEra)

	for _, road := range groupOrder {
		acc := groups[road]
		acc.group.AvgPrice = acc.priceSum / float64(acc.group.Count)
		acc.group.AvgUnitPrice = acc.unitSum / float64(acc.group.Count)
		acc.group.AddressRange = formatAddressRange(acc.group.MinNumber, acc.group.MaxNumber)
		summary.Groups = append(summary.Groups, acc.group)
	}

	// Stable sort keeps first-seen order between groups with equal counts,
	// so repeated runs over the same input order identically.
	sort.SliceStable(summary.Groups, func(i, j int) bool {
		return summary.Groups[i].Count > summary.Groups[j].Count
	})

	months := make([]string, 0, len(trendSum))
	for ym := range trendSum {
		months = append(months, ym)
	}
	sort.Strings(months)
	for _, ym := range months {
		summary.Trend = append(summary.Trend, TrendPoint{
			YearMonth:    ym,
			AvgUnitPrice: trendSum[ym] / float64(trendCount[ym]),
		})
	}

	zap.L().Info("query complete",
		zap.String("area", area),
		zap.Int("matches", summary.Count),
		zap.Int("groups", len(summary.Groups)),
		zap.Bool("stale", stale),
	)
	return summary, nil
}

// Snapshot exposes the underlying dataset snapshot, for callers that report
// freshness without running a query.
func (e *Engine) Snapshot(ctx context.Context) (*Dataset, bool, error) {
	return e.store.Snapshot(ctx)
}

// Districts returns the sorted distinct region names in the dataset, plus
// whether the snapshot served was stale.
func (e *Engine) Districts(ctx context.Context) ([]string, bool, error) {
	ds, stale, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tx := range ds.Records {
		if _, ok := seen[tx.Region]; ok {
			continue
		}
		seen[tx.Region] = struct{}{}
		out = append(out, tx.Region)
	}
	sort.Strings(out)
	return out, stale, nil
}

// eraYearMonth truncates a 7-digit era date to its year-month, e.g.
// "1130515" → "11305".
func eraYearMonth(eraDate string) string {
	if len(eraDate) < 5 {
		return ""
	}
	return eraDate[:5]
}

func formatAddressRange(minN, maxN int) string {
	switch {
	case minN == 0:
		return "未知門牌"
	case minN == maxN:
		return fmt.Sprintf("%d號", minN)
	default:
		return fmt.Sprintf("%d-%d號", minN, maxN)
	}
}

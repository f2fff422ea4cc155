package realprice

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrDataSource marks fatal loader failures: file missing or unreadable,
// legacy encoding, or a header missing required columns. Row-level failures
// never produce it; they are skipped and counted.
var ErrDataSource = eris.New("realprice: data source unavailable")

// Source CSV column names (MOI 不動產買賣實價登錄 batch extract).
const (
	colRegion       = "鄉鎮市區"
	colDate         = "交易年月日"
	colAddress      = "土地位置建物門牌"
	colTotalPrice   = "總價元"
	colBuildingArea = "建物移轉總面積平方公尺"
	colUnitPrice    = "單價元平方公尺"
	colLandArea     = "土地移轉總面積平方公尺"
	colAge          = "屋齡"
	colBuildingType = "建物型態"
	colFloor        = "移轉層次"
)

var requiredColumns = []string{
	colRegion, colDate, colAddress, colTotalPrice, colBuildingArea, colUnitPrice,
}

// LoadCSV parses the source CSV at path into an immutable Dataset.
// Per-row parse failures are skipped and counted, not fatal: partial results
// beat no results when a government extract carries a few bad rows.
func LoadCSV(path string) (*Dataset, error) {
	log := zap.L().With(zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(ErrDataSource, "open csv %s: %v", path, err)
	}
	defer file.Close() //nolint:errcheck

	ds, err := parseCSV(file)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", path)
	}

	log.Info("dataset loaded",
		zap.String("snapshot", ds.ID),
		zap.Int("records", len(ds.Records)),
		zap.Int("skipped", ds.Skipped),
	)
	return ds, nil
}

func parseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(ErrDataSource, "read csv header: %v", err)
	}

	// utf-8-sig sources prepend a BOM to the first cell.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for _, col := range header {
		if !utf8.ValidString(col) {
			return nil, eris.Wrap(ErrDataSource, "csv header is not valid UTF-8 (Big5 source? re-encode the file)")
		}
	}

	colIdx := mapColumns(header)
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrDataSource, "csv header missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ds.Skipped++
			continue
		}

		tx, ok := parseRow(record, colIdx)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Records = append(ds.Records, tx)
	}

	return ds, nil
}

// parseRow converts one CSV record. The second return is false when the row
// fails a required field: empty region, unparseable date, or non-positive
// price.
func parseRow(record []string, colIdx map[string]int) (Transaction, bool) {
	region := strings.TrimSpace(getCol(record, colIdx, colRegion))
	if region == "" {
		return Transaction{}, false
	}

	eraDate := strings.TrimSpace(getCol(record, colIdx, colDate))
	date, err := ParseEraDate(eraDate)
	if err != nil {
		return Transaction{}, false
	}

	price, err := parseAmount(getCol(record, colIdx, colTotalPrice))
	if err != nil || price <= 0 {
		return Transaction{}, false
	}

	address := strings.TrimSpace(getCol(record, colIdx, colAddress))
	road, number := SplitAddress(address, region)

	buildingArea := parseFloatOr(getCol(record, colIdx, colBuildingArea), 0) * PingPerSqm
	landArea := parseFloatOr(getCol(record, colIdx, colLandArea), 0) * PingPerSqm

	totalPrice := price / NTDPerWan

	// Unit price is derived from the converted total and area rather than
	// re-converting the source 元/m² column, so the two figures never drift.
	var unitPrice float64
	if buildingArea > 0 {
		unitPrice = totalPrice / buildingArea
	}

	return Transaction{
		Region:       region,
		Date:         date,
		EraDate:      eraDate,
		Address:      address,
		RoadName:     road,
		HouseNumber:  number,
		TotalPrice:   totalPrice,
		UnitPrice:    unitPrice,
		BuildingArea: buildingArea,
		LandArea:     landArea,
		BuildingType: strings.TrimSpace(getCol(record, colIdx, colBuildingType)),
		Floor:        strings.TrimSpace(getCol(record, colIdx, colFloor)),
		BuildingAge:  strings.TrimSpace(getCol(record, colIdx, colAge)),
	}, true
}

// ParseEraDate converts a 7-digit ROC era date (YYYMMDD) to a calendar date.
// 1130515 → 2024-05-15. Anything not matching the fixed layout is an error.
func ParseEraDate(s string) (time.Time, error) {
	if len(s) != 7 {
		return time.Time{}, eris.Errorf("era date %q: want 7 digits", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, eris.Errorf("era date %q: non-digit", s)
		}
	}

	eraYear, _ := strconv.Atoi(s[:3])
	month, _ := strconv.Atoi(s[3:5])
	day, _ := strconv.Atoi(s[5:7])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, eris.Errorf("era date %q: out of range", s)
	}

	d := time.Date(eraYear+1911, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if d.Day() != day || d.Month() != time.Month(month) {
		// time.Date normalized an impossible date like 1130230.
		return time.Time{}, eris.Errorf("era date %q: no such day", s)
	}
	return d, nil
}

// parseAmount parses a price field that may carry thousands separators.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, eris.New("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrap(err, "parse amount")
	}
	return v, nil
}

// parseFloatOr parses a numeric field, returning def on empty or bad input.
func parseFloatOr(s string, def float64) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// mapColumns builds a column name → index map from the header row.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.TrimSpace(col)] = i
	}
	return m
}

// getCol gets a column value by name, returning empty string if absent.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

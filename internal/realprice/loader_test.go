package realprice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "鄉鎮市區,交易年月日,土地位置建物門牌,總價元,建物移轉總面積平方公尺,單價元平方公尺,土地移轉總面積平方公尺,屋齡,建物型態,移轉層次\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataSource))
}

func TestLoadCSV_HeaderMismatch(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2,3\n")
	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataSource))
	assert.Contains(t, err.Error(), "鄉鎮市區")
}

func TestLoadCSV_SkipAndContinue(t *testing.T) {
	csv := testHeader +
		"北屯區,1130515,臺中市北屯區文心路四段100號,8500000,100,85000,50,5,住宅大樓,十層\n" +
		"北屯區,113051,臺中市北屯區文心路四段102號,9500000,100,95000,50,5,住宅大樓,十層\n" + // bad date: 6 digits
		"北屯區,1130601,臺中市北屯區崇德路50號,not-a-number,80,75000,40,8,華廈,五層\n" + // bad price
		"西屯區,1130620,臺中市西屯區市政路500號,12000000,120,100000,60,3,住宅大樓,十二層\n"

	ds, err := LoadCSV(writeCSV(t, csv))
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
	assert.Equal(t, 2, ds.Skipped)
	assert.NotEmpty(t, ds.ID)
	assert.WithinDuration(t, time.Now(), ds.LoadedAt, 5*time.Second)
}

func TestLoadCSV_BOMHeader(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, "\ufeff"+testHeader+
		"北屯區,1130515,臺中市北屯區文心路四段100號,8500000,100,85000,50,5,住宅大樓,十層\n"))
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
}

func TestLoadCSV_Conversions(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, testHeader+
		"北屯區,1130515,臺中市北屯區文心路四段100號,8500000,100,85000,50,5,住宅大樓,十層\n"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	tx := ds.Records[0]
	assert.Equal(t, "北屯區", tx.Region)
	assert.Equal(t, "文心路四段", tx.RoadName)
	assert.Equal(t, 100, tx.HouseNumber)
	assert.InDelta(t, 850.0, tx.TotalPrice, 1e-9)       // 8,500,000 NTD → 萬元
	assert.InDelta(t, 30.25, tx.BuildingArea, 1e-9)     // 100 m² → 坪
	assert.InDelta(t, 15.125, tx.LandArea, 1e-9)        // 50 m² → 坪
	assert.InDelta(t, 850.0/30.25, tx.UnitPrice, 1e-9)  // derived, not re-converted
	assert.Equal(t, "住宅大樓", tx.BuildingType)
	assert.Equal(t, "十層", tx.Floor)
	assert.Equal(t, "5", tx.BuildingAge)
	assert.Equal(t, 2024, tx.Date.Year())
}

func TestLoadCSV_ZeroAreaNoUnitPrice(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, testHeader+
		"北屯區,1130515,臺中市北屯區文心路四段100號,8500000,0,85000,0,5,住宅大樓,十層\n"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Zero(t, ds.Records[0].UnitPrice)
}

func TestParseEraDate(t *testing.T) {
	d, err := ParseEraDate("1130515")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 15, d.Day())

	for _, bad := range []string{"", "113", "11305151", "113051a", "1131315", "1130232", "2024-05-15"} {
		_, err := ParseEraDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestUnitConversionRoundTrip(t *testing.T) {
	for _, a := range []float64{0.1, 1, 33.06, 100, 12345.678} {
		assert.InDelta(t, a, a*PingPerSqm/PingPerSqm, 1e-9)
	}
}

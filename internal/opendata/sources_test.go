package opendata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeason(t *testing.T) {
	assert.Equal(t, "114S3", Season(time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "114S1", Season(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "113S4", Season(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestPrevSeason(t *testing.T) {
	assert.Equal(t, "114S2", PrevSeason(time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "113S4", PrevSeason(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "114S3", PrevSeason(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSource(t *testing.T) {
	src, err := Source("taichung")
	require.NoError(t, err)
	assert.Equal(t, "台中市", src.Name)
	assert.Equal(t, "b_lvr_land_a.csv", src.Member())
	assert.Equal(t, "taichung_prices.csv", src.Filename)

	_, err = Source("atlantis")
	assert.Error(t, err)
}

func TestCities(t *testing.T) {
	cities := Cities()
	assert.Contains(t, cities, "taichung")
	assert.Contains(t, cities, "taipei")
	assert.IsIncreasing(t, cities)
}

func TestSeasonURL(t *testing.T) {
	assert.Equal(t,
		"https://plvr.land.moi.gov.tw/DownloadSeason?season=114S3&type=zip&fileName=lvr_landcsv.zip",
		SeasonURL("114S3"))
}

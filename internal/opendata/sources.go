// Package opendata keeps a local copy of the MOI real-price-registration
// batch extract fresh: it resolves the current season, downloads the zip,
// extracts the per-city CSV, and transcodes legacy encodings.
package opendata

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesYAML []byte

// CitySource describes one downloadable city extract inside the MOI batch zip.
type CitySource struct {
	Name     string `yaml:"name"`
	Code     string `yaml:"code"`
	Filename string `yaml:"filename"`
}

// Member returns the CSV member name inside the batch zip, e.g.
// "b_lvr_land_a.csv" for Taichung.
func (c CitySource) Member() string {
	return fmt.Sprintf("%s_lvr_land_a.csv", c.Code)
}

type registry struct {
	SeasonURL string                `yaml:"season_url"`
	Cities    map[string]CitySource `yaml:"cities"`
}

var sources registry

func init() {
	if err := yaml.Unmarshal(sourcesYAML, &sources); err != nil {
		panic(eris.Wrap(err, "opendata: parse embedded sources.yaml"))
	}
}

// Source returns the registered source for a city key like "taichung".
func Source(city string) (CitySource, error) {
	src, ok := sources.Cities[city]
	if !ok {
		return CitySource{}, eris.Errorf("opendata: unknown city %q (known: %v)", city, Cities())
	}
	return src, nil
}

// Cities returns the registered city keys, sorted.
func Cities() []string {
	keys := make([]string, 0, len(sources.Cities))
	for k := range sources.Cities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Season formats the MOI season token for t, e.g. "114S3" for 2025-08.
// ROC year = Gregorian year − 1911.
func Season(t time.Time) string {
	return fmt.Sprintf("%dS%d", t.Year()-1911, (int(t.Month())-1)/3+1)
}

// PrevSeason returns the season token one quarter before t.
func PrevSeason(t time.Time) string {
	year, quarter := t.Year()-1911, (int(t.Month())-1)/3+1
	quarter--
	if quarter == 0 {
		year, quarter = year-1, 4
	}
	return fmt.Sprintf("%dS%d", year, quarter)
}

// SeasonURL returns the batch zip URL for a season token.
func SeasonURL(season string) string {
	return fmt.Sprintf(sources.SeasonURL, season)
}

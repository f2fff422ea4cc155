package realprice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArea(t *testing.T) {
	tests := []struct {
		in       string
		district string
		road     string
	}{
		{"北屯", "北屯區", ""},
		{"北屯區", "北屯區", ""},
		{"西屯區文心路", "西屯區", "文心路"},
		{"台中市南屯區", "南屯區", ""},
		{"臺中市北屯區崇德路", "北屯區", "崇德路"},
		{"信義區", "", ""}, // not a Taichung district
		{"", "", ""},
	}

	for _, tt := range tests {
		district, road := NormalizeArea(tt.in)
		assert.Equal(t, tt.district, district, "input %q", tt.in)
		assert.Equal(t, tt.road, road, "input %q", tt.in)
	}
}

func TestQueryFilter(t *testing.T) {
	assert.Equal(t, "北屯區", QueryFilter("北屯"))
	assert.Equal(t, "南屯區", QueryFilter("台中市南屯區"))
	// District+road stays a conjunction: both constrain the match.
	assert.Equal(t, "西屯區文心路", QueryFilter("西屯區文心路"))
	assert.Equal(t, "北屯區文心路", QueryFilter("北屯文心路"))
	// Unrecognized input passes through for the loose substring match.
	assert.Equal(t, "惠文路", QueryFilter("惠文路"))
}

func TestSuggestDistricts(t *testing.T) {
	got := SuggestDistricts("屯")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 5)
	for _, d := range got {
		assert.Contains(t, d, "屯")
	}

	assert.Contains(t, SuggestDistricts("北屯"), "北屯區")
	assert.Empty(t, SuggestDistricts(""))
}

package realprice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		region  string
		road    string
		number  int
	}{
		{"section road", "臺中市北屯區文心路四段100號", "北屯區", "文心路四段", 100},
		{"plain road", "臺中市西屯區市政路500號", "西屯區", "市政路", 500},
		{"numeric section cut", "臺中市北屯區昌平路1段50號", "北屯區", "昌平路", 1},
		{"no house number", "臺中市北屯區東山路", "北屯區", "東山路", 0},
		{"region absent from address", "文心路四段100號", "北屯區", "文心路四段", 100},
		{"simplified city prefix", "台中市南屯區永春東路777號", "南屯區", "永春東路", 777},
		{"empty address", "", "北屯區", "", 0},
		{"lane and alley keep prefix", "臺中市西區民生北巷12號", "西區", "民生北巷", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			road, number := SplitAddress(tt.address, tt.region)
			assert.Equal(t, tt.road, road)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestLeadingNumber(t *testing.T) {
	assert.Equal(t, 100, leadingNumber("100號"))
	assert.Equal(t, 0, leadingNumber("號"))
	assert.Equal(t, 0, leadingNumber(""))
	assert.Equal(t, 7, leadingNumber("7之2號"))
}

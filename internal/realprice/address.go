package realprice

import (
	"strings"
	"unicode"
)

var cityPrefixes = []string{"臺中市", "台中市", "臺北市", "台北市", "新北市", "高雄市"}

// SplitAddress extracts the road token and house number from a full street
// address. The road is the substring after the record's region up to the
// first decimal digit; it is a clustering key, not a general address parse.
//
//	"臺中市北屯區文心路四段100號" → ("文心路四段", 100)
//	"臺中市西屯區市政路500號"     → ("市政路", 500)
func SplitAddress(address, region string) (string, int) {
	addr := address
	for _, p := range cityPrefixes {
		addr = strings.TrimPrefix(addr, p)
	}
	if region != "" {
		if i := strings.Index(addr, region); i >= 0 {
			addr = addr[i+len(region):]
		}
	}
	addr = strings.TrimSpace(addr)

	cut := len(addr)
	for i, r := range addr {
		if unicode.IsDigit(r) {
			cut = i
			break
		}
	}

	road := strings.ReplaceAll(strings.TrimSpace(addr[:cut]), " ", "")
	number := leadingNumber(addr[cut:])
	return road, number
}

// leadingNumber parses the run of digits at the start of s, 0 if none.
func leadingNumber(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

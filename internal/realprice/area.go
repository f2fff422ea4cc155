package realprice

import (
	"sort"
	"strings"
)

// taichungDistricts maps user shorthand to the canonical district name as it
// appears in the 鄉鎮市區 column.
var taichungDistricts = map[string]string{
	"中區":  "中區",
	"東區":  "東區",
	"西區":  "西區",
	"南區":  "南區",
	"北區":  "北區",
	"西屯":  "西屯區",
	"西屯區": "西屯區",
	"南屯":  "南屯區",
	"南屯區": "南屯區",
	"北屯":  "北屯區",
	"北屯區": "北屯區",
	"豐原":  "豐原區",
	"豐原區": "豐原區",
	"東勢":  "東勢區",
	"東勢區": "東勢區",
	"大甲":  "大甲區",
	"大甲區": "大甲區",
	"清水":  "清水區",
	"清水區": "清水區",
	"沙鹿":  "沙鹿區",
	"沙鹿區": "沙鹿區",
	"梧棲":  "梧棲區",
	"梧棲區": "梧棲區",
	"后里":  "后里區",
	"后里區": "后里區",
	"神岡":  "神岡區",
	"神岡區": "神岡區",
	"潭子":  "潭子區",
	"潭子區": "潭子區",
	"大雅":  "大雅區",
	"大雅區": "大雅區",
	"新社":  "新社區",
	"新社區": "新社區",
	"石岡":  "石岡區",
	"石岡區": "石岡區",
	"外埔":  "外埔區",
	"外埔區": "外埔區",
	"大安":  "大安區",
	"大安區": "大安區",
	"烏日":  "烏日區",
	"烏日區": "烏日區",
	"大肚":  "大肚區",
	"大肚區": "大肚區",
	"龍井":  "龍井區",
	"龍井區": "龍井區",
	"霧峰":  "霧峰區",
	"霧峰區": "霧峰區",
	"太平":  "太平區",
	"太平區": "太平區",
	"大里":  "大里區",
	"大里區": "大里區",
	"和平":  "和平區",
	"和平區": "和平區",
}

// NormalizeArea splits free-form caller input into a canonical district and
// an optional trailing road token.
//
//	"北屯"           → ("北屯區", "")
//	"西屯區文心路"    → ("西屯區", "文心路")
//	"台中市南屯區"    → ("南屯區", "")
func NormalizeArea(area string) (district, road string) {
	area = strings.TrimSpace(area)
	area = strings.TrimPrefix(area, "台中市")
	area = strings.TrimPrefix(area, "臺中市")

	// Longest alias first so "北屯區" wins over "北屯".
	var best string
	for alias := range taichungDistricts {
		if strings.HasPrefix(area, alias) && len(alias) > len(best) {
			best = alias
		}
	}
	if best == "" {
		return "", ""
	}

	return taichungDistricts[best], strings.TrimSpace(area[len(best):])
}

// QueryFilter canonicalizes caller input into the substring filter passed to
// Engine.Query. A recognized district resolves to its canonical name; a
// district with a trailing road token keeps both, since the pair appears
// contiguously in source addresses ("臺中市北屯區文心路100號") and roads like
// 文心路 span several districts. Unrecognized input passes through unchanged.
func QueryFilter(area string) string {
	district, road := NormalizeArea(area)
	switch {
	case district != "" && road != "":
		return district + road
	case district != "":
		return district
	default:
		return strings.TrimSpace(area)
	}
}

// SuggestDistricts returns up to five district names resembling the query,
// for "no data" replies.
func SuggestDistricts(query string) []string {
	q := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(query), "區", ""))
	if q == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, district := range taichungDistricts {
		base := strings.ToLower(strings.ReplaceAll(district, "區", ""))
		if base == "" {
			continue
		}
		if strings.Contains(base, q) || strings.Contains(q, base) {
			if _, ok := seen[district]; ok {
				continue
			}
			seen[district] = struct{}{}
			out = append(out, district)
		}
	}

	sort.Strings(out)
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

package search

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/mailbox-locator/internal/normalizer"
	"github.com/mailbox-locator/internal/parser"
	"github.com/mozillazg/go-unidecode"
	"github.com/xrash/smetrics"
)

// RoadSuggestion gợi ý tên đường khi không có kết quả
type RoadSuggestion struct {
	Road  string  `json:"road"`
	Score float64 `json:"score"`
}

// SuggestRoads xếp hạng các tên đường gần với query nhất.
// So trên cả chữ Hán lẫn dạng phiên âm để chịu được lỗi gõ và input pinyin.
func (m *Matcher) SuggestRoads(query string, limit int) []RoadSuggestion {
	term := roadTerm(query)
	if term == "" {
		return []RoadSuggestion{}
	}
	if limit <= 0 {
		limit = m.opts.SuggestLimit
	}

	romanTerm := romanize(term)

	out := make([]RoadSuggestion, 0)
	for _, road := range m.ix.Roads() {
		key := normalizer.StripRoadSuffix(road)
		score := math.Max(similarity(term, key), similarity(romanTerm, romanize(key)))
		if score < m.opts.SuggestMinScore {
			continue
		}
		out = append(out, RoadSuggestion{Road: road, Score: math.Round(score*1000) / 1000})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// roadTerm phần tên đường của query, bỏ hậu tố loại đường
func roadTerm(query string) string {
	p := parser.ParseAddress(query)
	if p.Road != "" {
		return normalizer.StripRoadSuffix(p.Road)
	}

	// Không parse được road: lấy phần trước chữ số đầu tiên
	raw := p.Raw
	if i := strings.IndexFunc(raw, unicode.IsDigit); i >= 0 {
		raw = raw[:i]
	}
	return normalizer.StripRoadSuffix(raw)
}

// romanize phiên âm về chữ Latin thường, bỏ khoảng trắng
func romanize(s string) string {
	out := strings.ToLower(unidecode.Unidecode(s))
	return strings.Join(strings.Fields(out), "")
}

// similarity lấy max của Jaro-Winkler và Levenshtein chuẩn hóa
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	jaro := smetrics.JaroWinkler(a, b, 0.7, 4)

	dist := levenshtein.ComputeDistance(a, b)
	maxLen := math.Max(float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b)))
	lev := 1.0 - float64(dist)/maxLen

	return math.Max(jaro, lev)
}

package search

import (
	"sort"
	"strings"

	"github.com/mailbox-locator/internal/index"
	"github.com/mailbox-locator/internal/normalizer"
	"github.com/mailbox-locator/internal/parser"
)

// MatchTier mức match tạo ra tập kết quả
type MatchTier string

const (
	TierExact       MatchTier = "exact"
	TierIgnoreFloor MatchTier = "same-address-ignore-floor"
	TierFuzzy       MatchTier = "fuzzy"
	TierBox         MatchTier = "box"
	TierBorrower    MatchTier = "borrower"
	TierAll         MatchTier = "all"
)

// Điểm fuzzy, càng thấp càng tốt
const (
	scoreRoadEqual    = 0
	scoreRoadPrefix   = 6
	scoreRoadContains = 12
	scoreAddrContains = 20
	scoreBoxContains  = 25
	customBonus       = 2
)

// Options tham số của Matcher
type Options struct {
	FuzzyLimit      int
	SuggestLimit    int
	SuggestMinScore float64
}

// DefaultOptions giá trị mặc định
func DefaultOptions() Options {
	return Options{
		FuzzyLimit:      50,
		SuggestLimit:    5,
		SuggestMinScore: 0.6,
	}
}

// Matcher chạy chiến lược tra cứu nhiều tầng trên một Index cố định
type Matcher struct {
	ix   *index.Index
	opts Options
}

// NewMatcher tạo mới Matcher
func NewMatcher(ix *index.Index, opts Options) *Matcher {
	def := DefaultOptions()
	if opts.FuzzyLimit <= 0 {
		opts.FuzzyLimit = def.FuzzyLimit
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = def.SuggestLimit
	}
	if opts.SuggestMinScore <= 0 {
		opts.SuggestMinScore = def.SuggestMinScore
	}
	return &Matcher{ix: ix, opts: opts}
}

// Index index mà Matcher đang dùng
func (m *Matcher) Index() *index.Index {
	return m.ix
}

// Search tra cứu địa chỉ: exact → bỏ tầng → fuzzy
func (m *Matcher) Search(query string) ([]*index.Record, MatchTier) {
	p := parser.ParseAddress(query)

	if p.HasRoadAndNumber() {
		// Query không có tầng thì key chính xác trùng key bỏ tầng,
		// nên chỉ tính là exact khi tầng của record cũng trống
		exact := make([]*index.Record, 0)
		for _, rec := range m.ix.Lookup(index.Key(p.Road, p.NoMain, p.NoSub, p.Floor)) {
			if rec.Floor == p.Floor {
				exact = append(exact, rec)
			}
		}
		if len(exact) > 0 {
			return Rank(exact), TierExact
		}
		if same := m.ix.Lookup(index.FloorlessKey(p.Road, p.NoMain, p.NoSub)); len(same) > 0 {
			return Rank(same), TierIgnoreFloor
		}
	}

	return m.FuzzySearch(query, m.opts.FuzzyLimit), TierFuzzy
}

type scored struct {
	score int
	rec   *index.Record
}

// FuzzySearch quét toàn bộ pool, chấm điểm theo luật đầu tiên khớp
func (m *Matcher) FuzzySearch(query string, limit int) []*index.Record {
	term := normalizer.StripRoadSuffix(normalizer.ExpandAbbreviation(query))
	if term == "" {
		return []*index.Record{}
	}
	if limit <= 0 {
		limit = m.opts.FuzzyLimit
	}

	hits := make([]scored, 0)
	for _, rec := range m.ix.Pool() {
		score, ok := fuzzyScore(rec, term)
		if !ok {
			continue
		}
		if rec.Source == index.SourceCustom {
			score -= customBonus
		}
		hits = append(hits, scored{score: score, rec: rec})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score < hits[j].score
	})

	list := make([]*index.Record, 0, len(hits))
	for _, h := range hits {
		list = append(list, h.rec)
	}

	return Rank(dedupe(list, limit))
}

// fuzzyScore luật đầu tiên khớp quyết định điểm
func fuzzyScore(rec *index.Record, term string) (int, bool) {
	roadKey := rec.RoadKey

	switch {
	case roadKey != "" && roadKey == term:
		return scoreRoadEqual, true
	case roadKey != "" && strings.HasPrefix(roadKey, term):
		return scoreRoadPrefix, true
	case roadKey != "" && strings.Contains(roadKey, term):
		return scoreRoadContains, true
	case strings.Contains(rec.AddrNorm, term):
		return scoreAddrContains, true
	case rec.BoxNo != "" && strings.Contains(rec.BoxNo, term):
		return scoreBoxContains, true
	}
	return 0, false
}

// SearchByBoxNo tra ngược theo số box.
// Ưu tiên box có chữ số trùng khớp hoàn toàn, không có mới lấy box chứa chuỗi số.
func (m *Matcher) SearchByBoxNo(query string) []*index.Record {
	digits := normalizer.DigitsOnly(normalizer.Normalize(query))
	if digits == "" {
		return []*index.Record{}
	}

	pool := m.ix.Pool()

	exact := make([]*index.Record, 0)
	for _, rec := range pool {
		if normalizer.DigitsOnly(rec.BoxNo) == digits {
			exact = append(exact, rec)
		}
	}
	if len(exact) > 0 {
		return Rank(exact)
	}

	contains := make([]*index.Record, 0)
	for _, rec := range pool {
		if strings.Contains(rec.BoxNo, digits) {
			contains = append(contains, rec)
		}
	}
	return Rank(contains)
}

// SearchByBorrower tìm theo tên người mượn / công ty, không phân biệt hoa thường
func (m *Matcher) SearchByBorrower(query string) []*index.Record {
	term := strings.ToLower(normalizer.Normalize(query))
	if term == "" {
		return []*index.Record{}
	}

	out := make([]*index.Record, 0)
	for _, rec := range m.ix.Pool() {
		if rec.Borrower == "" {
			continue
		}
		if strings.Contains(strings.ToLower(normalizer.Normalize(rec.Borrower)), term) {
			out = append(out, rec)
		}
	}
	return Rank(out)
}

// SearchAll gộp kết quả địa chỉ, box và người mượn
func (m *Matcher) SearchAll(query string) []*index.Record {
	byAddr, _ := m.Search(query)

	all := make([]*index.Record, 0, len(byAddr))
	all = append(all, byAddr...)
	all = append(all, m.SearchByBoxNo(query)...)
	all = append(all, m.SearchByBorrower(query)...)

	return Rank(all)
}

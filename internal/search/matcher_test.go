package search

import (
	"strings"
	"testing"

	"github.com/mailbox-locator/internal/index"
	"github.com/mailbox-locator/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher() *Matcher {
	base := []index.RawRecord{
		{"地址_norm": "中山路123號2樓", "箱號_int": float64(37)},
		{"地址_norm": "中山路123號3樓", "箱號_int": float64(137)},
		{"地址_norm": "民生街5號", "boxNo": "19"},
		{"地址_norm": "太子路200號", "boxNo": "29"},
		{"地址_norm": "中正路9號", "boxNo": "A-8", "borrower": "王小明"},
	}
	custom := []index.RawRecord{
		{"地址_norm": "中山路88號", "箱號_int": float64(3), "公司": "Acme Ltd"},
	}
	return NewMatcher(index.Build(base, custom), DefaultOptions())
}

func TestMatcher_SearchExact(t *testing.T) {
	m := newTestMatcher()

	list, tier := m.Search("中山路123號2樓")

	assert.Equal(t, TierExact, tier)
	require.Len(t, list, 1)
	assert.Equal(t, "37", list[0].BoxNo)

	list, tier = m.Search("民生街5號")
	assert.Equal(t, TierExact, tier)
	require.Len(t, list, 1)
	assert.Equal(t, "19", list[0].BoxNo)
}

func TestMatcher_SearchIgnoreFloor(t *testing.T) {
	m := newTestMatcher()

	list, tier := m.Search("中山路123號")
	assert.Equal(t, TierIgnoreFloor, tier)
	assert.Equal(t, []string{"37", "137"}, boxes(list))

	list, tier = m.Search("中山路 123 号 5樓")
	assert.Equal(t, TierIgnoreFloor, tier)
	assert.Len(t, list, 2)
}

func TestMatcher_SearchFallsBackToFuzzy(t *testing.T) {
	m := newTestMatcher()

	list, tier := m.Search("太子")
	assert.Equal(t, TierFuzzy, tier)
	require.Len(t, list, 1)
	assert.Equal(t, "29", list[0].BoxNo)

	list, tier = m.Search("中山路999號")
	assert.Equal(t, TierFuzzy, tier)
	assert.Empty(t, list)
}

func TestMatcher_FuzzySearchRoad(t *testing.T) {
	m := newTestMatcher()

	list := m.FuzzySearch("中山路", 50)

	assert.Equal(t, []string{"3", "37", "137"}, boxes(list))
	assert.Equal(t, index.SourceCustom, list[0].Source)
}

func TestMatcher_FuzzySearchEmptyTerm(t *testing.T) {
	m := newTestMatcher()

	assert.Empty(t, m.FuzzySearch("", 50))
	assert.Empty(t, m.FuzzySearch("   ", 50))
	assert.Empty(t, m.FuzzySearch("路", 50))
}

func TestMatcher_FuzzySearchLimitKeepsBestScores(t *testing.T) {
	m := newTestMatcher()

	// "中正路9號" chứa "9" trong địa chỉ (20), box "19"/"29" chỉ khớp box (25)
	list := m.FuzzySearch("9", 1)

	require.Len(t, list, 1)
	assert.Equal(t, "中正路9號", list[0].AddrNorm)
}

func TestMatcher_FuzzyCustomBonusOneTier(t *testing.T) {
	ix := index.Build(
		[]index.RawRecord{
			{"地址_norm": "民生街1號", "boxNo": "77"},
			{"地址_norm": "77路1號", "boxNo": "5"},
		},
		[]index.RawRecord{
			{"地址_norm": "和平路77號", "boxNo": "1"},
		},
	)
	m := NewMatcher(ix, DefaultOptions())

	list := m.FuzzySearch("77", 2)

	require.Len(t, list, 2)
	assert.Equal(t, "和平路77號", list[0].AddrNorm)
	assert.Equal(t, "77路1號", list[1].AddrNorm)
}

func TestMatcher_FuzzyResultsContainTerm(t *testing.T) {
	m := newTestMatcher()

	for _, q := range []string{"中", "山", "1", "3", "民生", "2樓", "8"} {
		term := normalizer.StripRoadSuffix(normalizer.ExpandAbbreviation(q))
		for _, r := range m.FuzzySearch(q, 50) {
			ok := strings.Contains(r.RoadKey, term) ||
				strings.Contains(r.AddrNorm, term) ||
				strings.Contains(r.BoxNo, term)
			assert.True(t, ok, "query %q returned %q", q, r.AddrNorm)
		}
	}
}

func TestMatcher_SearchByBoxNo(t *testing.T) {
	m := newTestMatcher()

	assert.Equal(t, []string{"37"}, boxes(m.SearchByBoxNo("37")))
	assert.Equal(t, []string{"19", "29"}, boxes(m.SearchByBoxNo("9")))
	assert.Equal(t, []string{"A-8"}, boxes(m.SearchByBoxNo("8")))
	assert.Equal(t, []string{"3"}, boxes(m.SearchByBoxNo("箱 3")))
	assert.Empty(t, m.SearchByBoxNo("abc"))
	assert.Empty(t, m.SearchByBoxNo(""))
}

func TestMatcher_SearchByBorrower(t *testing.T) {
	m := newTestMatcher()

	list := m.SearchByBorrower("acme")
	require.Len(t, list, 1)
	assert.Equal(t, "中山路88號", list[0].AddrNorm)

	list = m.SearchByBorrower("王")
	require.Len(t, list, 1)
	assert.Equal(t, "A-8", list[0].BoxNo)

	assert.Empty(t, m.SearchByBorrower(" "))
}

func TestMatcher_SearchAll(t *testing.T) {
	m := newTestMatcher()

	assert.Equal(t, []string{"37", "137"}, boxes(m.SearchAll("37")))

	list := m.SearchAll("王小明")
	require.Len(t, list, 1)
	assert.Equal(t, "中正路9號", list[0].AddrNorm)
}

func TestNewMatcher_Defaults(t *testing.T) {
	m := NewMatcher(index.Build(nil, nil), Options{})

	assert.Equal(t, DefaultOptions(), m.opts)
	assert.Empty(t, m.FuzzySearch("中山", 0))
}

package search

import (
	"testing"

	"github.com/mailbox-locator/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSuggestMatcher() *Matcher {
	base := []index.RawRecord{
		{"地址_norm": "中山路1號", "boxNo": "1"},
		{"地址_norm": "中正路2號", "boxNo": "2"},
		{"地址_norm": "民生街3號", "boxNo": "3"},
		{"地址_norm": "中山路5號", "boxNo": "4"},
	}
	return NewMatcher(index.Build(base, nil), DefaultOptions())
}

func TestSuggestRoads_ExactRoadFirst(t *testing.T) {
	m := newSuggestMatcher()

	got := m.SuggestRoads("中山路999號", 3)

	require.NotEmpty(t, got)
	assert.Equal(t, "中山路", got[0].Road)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestSuggestRoads_Typo(t *testing.T) {
	m := newSuggestMatcher()

	got := m.SuggestRoads("中三路12號", 3)

	require.NotEmpty(t, got)
	assert.Equal(t, "中山路", got[0].Road)
}

func TestSuggestRoads_Pinyin(t *testing.T) {
	m := newSuggestMatcher()

	got := m.SuggestRoads("minsheng", 1)

	require.Len(t, got, 1)
	assert.Equal(t, "民生街", got[0].Road)
}

func TestSuggestRoads_DistinctAndSorted(t *testing.T) {
	m := newSuggestMatcher()

	got := m.SuggestRoads("中山", 10)

	seen := map[string]bool{}
	for i, s := range got {
		assert.False(t, seen[s.Road], "duplicate road %s", s.Road)
		seen[s.Road] = true
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, s.Score)
		}
	}
}

func TestSuggestRoads_Empty(t *testing.T) {
	m := newSuggestMatcher()

	assert.Empty(t, m.SuggestRoads("", 3))
	assert.Empty(t, m.SuggestRoads("123", 3))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Equal(t, 0.0, similarity("", "abc"))
	assert.Greater(t, similarity("zhongsan", "zhongshan"), similarity("zhongsan", "zhongzheng"))
}

func TestRomanize(t *testing.T) {
	assert.Equal(t, "zhongshan", romanize("中山"))
	assert.Equal(t, "minsheng", romanize("Min Sheng"))
}

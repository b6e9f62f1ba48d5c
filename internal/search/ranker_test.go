package search

import (
	"testing"

	"github.com/mailbox-locator/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(source index.Source, addr, box string) *index.Record {
	return &index.Record{Source: source, AddrNorm: addr, Display: addr, BoxNo: box}
}

func boxes(list []*index.Record) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.BoxNo)
	}
	return out
}

func TestRank_CustomFirstThenNumericBox(t *testing.T) {
	list := []*index.Record{
		rec(index.SourceBase, "中山路1號", "10"),
		rec(index.SourceBase, "中山路1號", "9"),
		rec(index.SourceCustom, "中山路1號", "50"),
		rec(index.SourceBase, "中山路1號", "箱"),
		rec(index.SourceCustom, "中山路1號", "2"),
	}

	ranked := Rank(list)

	assert.Equal(t, []string{"2", "50", "箱", "9", "10"}, boxes(ranked))
	assert.Equal(t, index.SourceCustom, ranked[0].Source)
	assert.Equal(t, index.SourceCustom, ranked[1].Source)
}

func TestRank_DisplayCollation(t *testing.T) {
	list := []*index.Record{
		rec(index.SourceBase, "banana", "1"),
		rec(index.SourceBase, "apple", "1"),
	}

	ranked := Rank(list)

	assert.Equal(t, "apple", ranked[0].Display)
	assert.Equal(t, "banana", ranked[1].Display)
}

func TestRank_Dedupe(t *testing.T) {
	a := rec(index.SourceBase, "中山路1號", "37")
	dup := rec(index.SourceBase, "中山路1號", "37")
	other := rec(index.SourceCustom, "中山路1號", "37")

	ranked := Rank([]*index.Record{a, dup, other, nil})

	require.Len(t, ranked, 2)
	assert.Same(t, other, ranked[0])
	assert.Same(t, a, ranked[1])
}

func TestRank_Idempotent(t *testing.T) {
	list := []*index.Record{
		rec(index.SourceBase, "民生街5號", "A-12"),
		rec(index.SourceBase, "中山路1號", "007"),
		rec(index.SourceCustom, "太子路200號", ""),
		rec(index.SourceBase, "中山路1號", "7"),
		rec(index.SourceBase, "民生街5號", "A-12"),
		rec(index.SourceCustom, "中正路9號", "3"),
		rec(index.SourceBase, "和平路2號", ""),
		rec(index.SourceBase, "中山路1號", "137"),
	}

	once := Rank(list)
	twice := Rank(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 7)
}

func TestRank_Empty(t *testing.T) {
	assert.NotNil(t, Rank(nil))
	assert.Empty(t, Rank(nil))
}

func TestCompareBoxNo(t *testing.T) {
	assert.Equal(t, -1, compareBoxNo("9", "10"))
	assert.Equal(t, 1, compareBoxNo("137", "37"))
	assert.Equal(t, 0, compareBoxNo("007", "7"))
	assert.Equal(t, 1, compareBoxNo("A-8", "箱"))
	assert.Equal(t, -1, compareBoxNo("箱", "5"))
	assert.Equal(t, 0, compareBoxNo("", "0"))
	assert.Equal(t, 0, compareBoxNo("", "箱"))
}

func TestRank_BoxWithoutDigitsCountsAsZero(t *testing.T) {
	list := []*index.Record{
		rec(index.SourceBase, "B街1號", "5"),
		rec(index.SourceBase, "A街1號", "箱"),
	}

	ranked := Rank(list)

	require.Len(t, ranked, 2)
	assert.Equal(t, "A街1號", ranked[0].Display)
	assert.Equal(t, "B街1號", ranked[1].Display)
	assert.Equal(t, ranked, Rank(ranked))
}

package normalizer

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Trim_And_Collapse", input: "  中山路 123 號\t2樓 ", expected: "中山路123號2樓"},
		{name: "Variant_Taiwan", input: "臺北市中山路", expected: "台北市中山路"},
		{name: "Variant_Number", input: "中山路123号", expected: "中山路123號"},
		{name: "Ideographic_Space", input: "中山路　123號", expected: "中山路123號"},
		{name: "Fullwidth_Digits", input: "中山路１２３號", expected: "中山路123號"},
		{name: "BOM", input: "\uFEFF中山路", expected: "中山路"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_OnlyCanonicalGlyphs(t *testing.T) {
	inputs := []string{
		"臺 中 市 臺灣大道 1 号",
		"\n臺南市\t中正路  9号 3樓",
		"新北市 臺 號 号",
	}

	for _, input := range inputs {
		out := Normalize(input)
		assert.NotContains(t, out, "臺")
		assert.NotContains(t, out, "号")
		assert.False(t, strings.ContainsFunc(out, unicode.IsSpace), "whitespace left in %q", out)
	}
}

func TestExpandAbbreviation(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Road_Lane_Alley_Floor", input: "太子R200L79A32F2", expected: "太子路200巷79弄32樓2"},
		{name: "Street_Upper", input: "民生ST5號", expected: "民生街5號"},
		{name: "Street_Lower", input: "民生st5號", expected: "民生街5號"},
		{name: "Number_Pattern", input: "中山路NO:123", expected: "中山路123號"},
		{name: "Spaces_Removed_First", input: "中山 R 12 號", expected: "中山路12號"},
		{name: "Chinese_Untouched", input: "中山路123號2樓", expected: "中山路123號2樓"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExpandAbbreviation(tc.input))
		})
	}
}

func TestExpandAbbreviation_RuleOrder(t *testing.T) {
	names := make([]string, 0, len(AbbreviationRules))
	for _, rule := range AbbreviationRules {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []string{"street", "road", "lane", "alley", "floor", "number"}, names)

	// "ST" bị luật street ăn trước nên không còn chữ nào cho các luật sau
	assert.Equal(t, "街", ExpandAbbreviation("ST"))
	// "FLOOR" không phải token: từng chữ cái bị thay riêng lẻ
	assert.Equal(t, "樓巷OO路", ExpandAbbreviation("FLOOR"))
}

func TestStripRoadSuffix(t *testing.T) {
	assert.Equal(t, "中山", StripRoadSuffix("中山路"))
	assert.Equal(t, "民生", StripRoadSuffix("民生街"))
	assert.Equal(t, "台灣", StripRoadSuffix("臺灣大道"))
	assert.Equal(t, "中山路二", StripRoadSuffix("中山路二段"))
	assert.Equal(t, "太子", StripRoadSuffix("太子"))
	assert.Equal(t, "", StripRoadSuffix(""))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "37", DigitsOnly("A-37"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// variantReplacer gom các glyph biến thể về dạng chuẩn
var variantReplacer = strings.NewReplacer(
	"臺", "台",
	"号", "號",
)

// reRoadSuffix hậu tố loại đường ở cuối chuỗi
var reRoadSuffix = regexp.MustCompile(`(路|街|大道|段)$`)

// AbbreviationRule một luật viết tắt Latin → chữ Hán
type AbbreviationRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// AbbreviationRules danh sách luật mở rộng viết tắt, áp dụng tuần tự.
// Thứ tự là một phần của hợp đồng: ký tự đã bị luật trước thay thế
// sẽ không còn khớp với luật sau (ví dụ "ST" phải chạy trước "R"/"L"/"A"/"F").
var AbbreviationRules = []AbbreviationRule{
	{Name: "street", Pattern: regexp.MustCompile(`ST|st`), Replacement: "街"},
	{Name: "road", Pattern: regexp.MustCompile(`R`), Replacement: "路"},
	{Name: "lane", Pattern: regexp.MustCompile(`L`), Replacement: "巷"},
	{Name: "alley", Pattern: regexp.MustCompile(`A`), Replacement: "弄"},
	{Name: "floor", Pattern: regexp.MustCompile(`F`), Replacement: "樓"},
	{Name: "number", Pattern: regexp.MustCompile(`NO:(\d+)`), Replacement: "${1}號"},
}

// foldWidth chuyển ký tự full-width (１２３、ＳＴ、：) về half-width
func foldWidth(s string) string {
	out, _, err := transform.String(width.Fold, s)
	if err != nil {
		return s
	}
	return out
}

// isSpace bao gồm cả BOM, vốn không thuộc unicode.White_Space
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Normalize chuẩn hóa chuỗi địa chỉ: gập full-width, bỏ toàn bộ khoảng trắng,
// đổi glyph biến thể về glyph chuẩn. Chuỗi rỗng trả về chuỗi rỗng.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = foldWidth(s)
	s = strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, s)

	return variantReplacer.Replace(s)
}

// ExpandAbbreviation normalize rồi mở rộng viết tắt theo AbbreviationRules
func ExpandAbbreviation(s string) string {
	t := Normalize(s)
	for _, rule := range AbbreviationRules {
		t = rule.Pattern.ReplaceAllString(t, rule.Replacement)
	}
	return t
}

// StripRoadSuffix bỏ hậu tố loại đường ở cuối, chỉ dùng làm road key so sánh
func StripRoadSuffix(s string) string {
	return reRoadSuffix.ReplaceAllString(Normalize(s), "")
}

// DigitsOnly giữ lại các chữ số ASCII
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

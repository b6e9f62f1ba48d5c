package parser

import (
	"regexp"
	"strings"

	"github.com/mailbox-locator/internal/normalizer"
)

// Các pattern trích xuất, mỗi pattern quét độc lập trên cùng chuỗi đã mở rộng
var (
	// road: tiền tố không chứa chữ số dài nhất kết thúc bằng hậu tố loại đường,
	// có thể kèm đoạn đánh số ("2段")
	reRoad    = regexp.MustCompile(`^(\D*(?:路|街|大道|段)(?:\d+段)?)`)
	reHouseNo = regexp.MustCompile(`(\d+)(?:之(\d+))?號`)
	reFloor   = regexp.MustCompile(`(\d+)樓`)
	reLane    = regexp.MustCompile(`(\d+)巷`)
	reAlley   = regexp.MustCompile(`(\d+)弄`)
)

// ParsedAddress các trường cấu trúc của một địa chỉ.
// Trường nào không tìm thấy thì để rỗng.
type ParsedAddress struct {
	Raw    string `json:"raw"`
	Road   string `json:"road"`
	NoMain string `json:"no_main"`
	NoSub  string `json:"no_sub"`
	Floor  string `json:"floor"`
	Lane   string `json:"lane"`
	Alley  string `json:"alley"`
}

// ParseAddress mở rộng viết tắt rồi trích xuất road / số nhà / tầng / hẻm / ngách.
// Thiếu một trường không chặn việc trích xuất trường khác.
func ParseAddress(input string) ParsedAddress {
	raw := normalizer.ExpandAbbreviation(input)

	p := ParsedAddress{Raw: raw}

	if m := reRoad.FindStringSubmatch(raw); len(m) > 1 {
		p.Road = m[1]
	}

	if m := reHouseNo.FindStringSubmatch(raw); len(m) > 2 {
		p.NoMain = m[1]
		p.NoSub = m[2]
	}

	p.Floor = firstGroup(reFloor, raw)
	p.Lane = firstGroup(reLane, raw)
	p.Alley = firstGroup(reAlley, raw)

	return p
}

// HasRoadAndNumber đủ road + số nhà để tra key chính xác
func (p ParsedAddress) HasRoadAndNumber() bool {
	return p.Road != "" && p.NoMain != ""
}

// Summary dựng lại dạng "road + số號 + tầng樓" để hiển thị kết quả parse
func (p ParsedAddress) Summary() string {
	var b strings.Builder
	if p.Road != "" {
		b.WriteString(p.Road)
	} else {
		b.WriteString("?")
	}
	if p.NoMain != "" {
		b.WriteString(p.NoMain)
		if p.NoSub != "" {
			b.WriteString("之" + p.NoSub)
		}
		b.WriteString("號")
	}
	if p.Floor != "" {
		b.WriteString(p.Floor + "樓")
	}
	return b.String()
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

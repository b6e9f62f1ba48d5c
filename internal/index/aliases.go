package index

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Danh sách alias theo thứ tự ưu tiên cho từng trường logic.
// Giá trị không rỗng đầu tiên thắng.
var (
	AddrNormAliases = []string{"地址_norm", "addr_norm", "full_address", "address"}
	AddrRawAliases  = []string{"地址", "addr", "address"}
	DisplayAliases  = []string{"display"}
	RoadAliases     = []string{"road"}
	NoAliases       = []string{"no"}
	NoSubAliases    = []string{"no_sub"}
	FloorAliases    = []string{"floor"}
	LaneAliases     = []string{"lane"}
	AlleyAliases    = []string{"alley"}
	BoxNoAliases    = []string{"boxNo", "box_no", "箱號_int", "箱號"}
	NoteAliases     = []string{"note", "備註"}
	BorrowerAliases = []string{"borrower", "姓名", "公司"}
	IDAliases       = []string{"id"}
	RowIDAliases    = []string{"row_id"}
)

// First trả về giá trị không rỗng đầu tiên theo danh sách alias
func (r RawRecord) First(aliases []string) string {
	for _, name := range aliases {
		v, ok := r[name]
		if !ok {
			continue
		}
		if s := Stringify(v); s != "" {
			return s
		}
	}
	return ""
}

// Stringify đổi giá trị JSON/YAML/XLSX về chuỗi đã trim.
// nil cho chuỗi rỗng; số nguyên dạng float64 không kèm phần thập phân.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

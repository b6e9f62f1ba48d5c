package models

import (
	"github.com/mailbox-locator/internal/index"
)

// LockerCandidate một kết quả tra cứu trả về cho client
type LockerCandidate struct {
	Source   string `json:"source"`             // base | custom
	ID       string `json:"id,omitempty"`       // ID record custom
	BoxNo    string `json:"box_no"`             // Số box
	Display  string `json:"display"`            // Địa chỉ hiển thị
	Road     string `json:"road,omitempty"`     // Tên đường
	NoMain   string `json:"no_main,omitempty"`  // Số nhà
	NoSub    string `json:"no_sub,omitempty"`   // Số phụ (之)
	Floor    string `json:"floor,omitempty"`    // Tầng
	Lane     string `json:"lane,omitempty"`     // Hẻm (巷)
	Alley    string `json:"alley,omitempty"`    // Ngách (弄)
	Note     string `json:"note,omitempty"`     // Ghi chú
	Borrower string `json:"borrower,omitempty"` // Người mượn / công ty
}

// NewLockerCandidate chuyển Record sang DTO
func NewLockerCandidate(rec *index.Record) LockerCandidate {
	return LockerCandidate{
		Source:   string(rec.Source),
		ID:       rec.ID,
		BoxNo:    rec.BoxNo,
		Display:  rec.Display,
		Road:     rec.Road,
		NoMain:   rec.NoMain,
		NoSub:    rec.NoSub,
		Floor:    rec.Floor,
		Lane:     rec.Lane,
		Alley:    rec.Alley,
		Note:     rec.Note,
		Borrower: rec.Borrower,
	}
}

// NewLockerCandidates chuyển danh sách Record, giữ nguyên thứ tự
func NewLockerCandidates(list []*index.Record) []LockerCandidate {
	out := make([]LockerCandidate, 0, len(list))
	for _, rec := range list {
		out = append(out, NewLockerCandidate(rec))
	}
	return out
}

// CustomEntry record custom kèm key dùng để sửa / xóa
type CustomEntry struct {
	Key    string                 `json:"key"`
	Record map[string]interface{} `json:"record"`
}

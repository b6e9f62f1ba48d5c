package requests

// LookupRequest request tra cứu box (query string hoặc JSON body)
type LookupRequest struct {
	Query string `form:"q" json:"query" binding:"required"` // Địa chỉ / số box / tên người mượn
	Mode  string `form:"mode" json:"mode"`                  // addr | box | borrower | all
}

// CustomRecordRequest request thêm / sửa custom record
type CustomRecordRequest struct {
	Address  string `json:"address" binding:"required"` // Địa chỉ, chấp nhận viết tắt R/ST/L/A/F/NO:
	BoxNo    string `json:"box_no" binding:"required"`  // Số box
	Note     string `json:"note,omitempty"`             // Ghi chú
	Borrower string `json:"borrower,omitempty"`         // Người mượn / công ty
}

// ExportRequest tham số export
type ExportRequest struct {
	Format string `form:"format"` // json (mặc định) | xlsx
}

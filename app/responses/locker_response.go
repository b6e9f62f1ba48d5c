package responses

import (
	"github.com/mailbox-locator/app/models"
	"github.com/mailbox-locator/internal/parser"
	"github.com/mailbox-locator/internal/search"
)

// LookupResponse response tra cứu box
type LookupResponse struct {
	Query            string                   `json:"query"`                 // Query gốc
	Mode             string                   `json:"mode"`                  // Chế độ tra cứu
	Tier             string                   `json:"tier"`                  // Tầng match tạo ra kết quả
	Candidates       []models.LockerCandidate `json:"candidates"`            // Danh sách ứng viên đã xếp hạng
	Total            int                      `json:"total"`                 // Số ứng viên
	Parsed           *ParsedEcho              `json:"parsed,omitempty"`      // Kết quả parse khi không tìm thấy
	Suggestions      []search.RoadSuggestion  `json:"suggestions,omitempty"` // Gợi ý tên đường
	Generation       uint64                   `json:"generation"`            // Phiên bản index
	ProcessingTimeMs int64                    `json:"processing_time_ms"`    // Thời gian xử lý (ms)
}

// ParsedEcho địa chỉ đã được hiểu như thế nào
type ParsedEcho struct {
	parser.ParsedAddress
	Summary string `json:"summary"` // Dạng rút gọn road + số號 + tầng樓
}

// NewParsedEcho nil nếu không có kết quả parse
func NewParsedEcho(p *parser.ParsedAddress) *ParsedEcho {
	if p == nil {
		return nil
	}
	return &ParsedEcho{ParsedAddress: *p, Summary: p.Summary()}
}

// CustomListResponse response danh sách custom record
type CustomListResponse struct {
	Records []models.CustomEntry `json:"records"` // Mới nhất trước
	Total   int                  `json:"total"`   // Tổng số record
}

// ImportResponse response import custom record
type ImportResponse struct {
	Total   int    `json:"total"`   // Số phần tử trong payload
	Added   int    `json:"added"`   // Số record thêm mới
	Updated int    `json:"updated"` // Số record ghi đè
	Skipped int    `json:"skipped"` // Số phần tử thiếu địa chỉ / box
	Message string `json:"message"` // Thông báo
}

// StatsResponse response thống kê engine
type StatsResponse struct {
	BaseRecords     int    `json:"base_records"`     // Số record gốc
	CustomRecords   int    `json:"custom_records"`   // Số custom record
	IndexedRecords  int    `json:"indexed_records"`  // Số record có key chính xác
	IndexKeys       int    `json:"index_keys"`       // Số key trong index
	Generation      uint64 `json:"generation"`       // Phiên bản index
	CacheEntries    int    `json:"cache_entries"`    // Số kết quả đang cache
	PersistFailures int64  `json:"persist_failures"` // Số lần lưu store thất bại
	StoreBackend    string `json:"store_backend"`    // Backend lưu trữ
	StoreReads      int64  `json:"store_reads"`      // Số lần đọc store
	StoreWrites     int64  `json:"store_writes"`     // Số lần ghi store
	Uptime          string `json:"uptime"`           // Thời gian hoạt động
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản
	Services  map[string]string `json:"services"`  // Trạng thái các service
}

package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailbox-locator/app/requests"
	"github.com/mailbox-locator/app/responses"
	"github.com/mailbox-locator/app/services"
	"go.uber.org/zap"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportBytes  = 32 << 20
)

// CustomController controller quản lý custom record
type CustomController struct {
	lockerService *services.LockerService
	logger        *zap.Logger
}

// NewCustomController tạo mới CustomController
func NewCustomController(lockerService *services.LockerService, logger *zap.Logger) *CustomController {
	return &CustomController{
		lockerService: lockerService,
		logger:        logger,
	}
}

// List danh sách custom record, mới nhất trước
func (cc *CustomController) List(c *gin.Context) {
	records := cc.lockerService.List()

	c.JSON(http.StatusOK, responses.CustomListResponse{
		Records: records,
		Total:   len(records),
	})
}

// Create thêm custom record
func (cc *CustomController) Create(c *gin.Context) {
	var req requests.CustomRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return
	}

	rec, err := cc.lockerService.Add(c.Request.Context(), toInput(req))
	if err != nil {
		cc.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã thêm custom record",
		Data:      gin.H{"key": services.RecordKey(rec), "record": rec},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Update sửa custom record theo key
func (cc *CustomController) Update(c *gin.Context) {
	key := c.Param("key")

	var req requests.CustomRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return
	}

	rec, err := cc.lockerService.Update(c.Request.Context(), key, toInput(req))
	if err != nil {
		cc.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã cập nhật custom record",
		Data:      gin.H{"key": services.RecordKey(rec), "record": rec},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Delete xóa custom record theo key
func (cc *CustomController) Delete(c *gin.Context) {
	key := c.Param("key")

	if err := cc.lockerService.Delete(c.Request.Context(), key); err != nil {
		cc.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã xóa custom record",
		Data:      gin.H{"key": key},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Import merge custom record từ JSON body, file XLSX hoặc multipart upload
func (cc *CustomController) Import(c *gin.Context) {
	payload, isXLSX, err := readImportPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_REQUEST", "Không đọc được dữ liệu import: "+err.Error()))
		return
	}

	var result services.ImportResult
	if isXLSX {
		result, err = cc.lockerService.ImportXLSX(c.Request.Context(), bytes.NewReader(payload))
	} else {
		result, err = cc.lockerService.Import(c.Request.Context(), payload)
	}
	if err != nil {
		cc.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.ImportResponse{
		Total:   result.Total,
		Added:   result.Added,
		Updated: result.Updated,
		Skipped: result.Skipped,
		Message: fmt.Sprintf("Đã import %d record (%d mới, %d cập nhật)", result.Added+result.Updated, result.Added, result.Updated),
	})
}

// Export xuất custom record dạng JSON hoặc XLSX (?format=xlsx)
func (cc *CustomController) Export(c *gin.Context) {
	var req requests.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_REQUEST", err.Error()))
		return
	}

	stamp := time.Now().Format("20060102")

	switch strings.ToLower(req.Format) {
	case "xlsx":
		var buf bytes.Buffer
		if err := cc.lockerService.ExportXLSX(&buf); err != nil {
			cc.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="custom_records_%s.xlsx"`, stamp))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	case "", "json":
		data, err := cc.lockerService.Export()
		if err != nil {
			cc.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="custom_records_%s.json"`, stamp))
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	default:
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_FORMAT", "Format không hỗ trợ: "+req.Format))
	}
}

// Wipe xóa toàn bộ custom record
func (cc *CustomController) Wipe(c *gin.Context) {
	cc.lockerService.Wipe(c.Request.Context())

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã xóa toàn bộ custom record",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// writeServiceError map lỗi service sang HTTP status
func (cc *CustomController) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, errorBody(c, "MISSING_FIELDS", err.Error()))
	case errors.Is(err, services.ErrUnparseableAddress):
		c.JSON(http.StatusBadRequest, errorBody(c, "UNPARSEABLE_ADDRESS", err.Error()))
	case errors.Is(err, services.ErrImportNotArray):
		c.JSON(http.StatusBadRequest, errorBody(c, "IMPORT_NOT_ARRAY", err.Error()))
	case errors.Is(err, services.ErrInvalidImport):
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_IMPORT", err.Error()))
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, errorBody(c, "RECORD_NOT_FOUND", err.Error()))
	case errors.Is(err, services.ErrDuplicateRecord):
		c.JSON(http.StatusConflict, errorBody(c, "DUPLICATE_RECORD", err.Error()))
	default:
		cc.logger.Error("Lỗi xử lý custom record", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, errorBody(c, "INTERNAL_ERROR", err.Error()))
	}
}

func toInput(req requests.CustomRecordRequest) services.RecordInput {
	return services.RecordInput{
		Address:  req.Address,
		BoxNo:    req.BoxNo,
		Note:     req.Note,
		Borrower: req.Borrower,
	}
}

// readImportPayload multipart lấy field "file"; còn lại đọc nguyên body
func readImportPayload(c *gin.Context) ([]byte, bool, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, false, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, false, err
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
		return data, strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx"), err
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	return data, c.ContentType() == xlsxContentType, err
}

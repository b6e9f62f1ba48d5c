package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailbox-locator/app/models"
	"github.com/mailbox-locator/app/requests"
	"github.com/mailbox-locator/app/responses"
	"github.com/mailbox-locator/app/services"
	"go.uber.org/zap"
)

// Version phiên bản service
const Version = "1.0.0"

// LockerController controller tra cứu box theo địa chỉ / số box / người mượn
type LockerController struct {
	lockerService *services.LockerService
	logger        *zap.Logger
}

// NewLockerController tạo mới LockerController
func NewLockerController(lockerService *services.LockerService, logger *zap.Logger) *LockerController {
	return &LockerController{
		lockerService: lockerService,
		logger:        logger,
	}
}

// Search tra cứu box, nhận query string (GET) hoặc JSON body (POST)
func (lc *LockerController) Search(c *gin.Context) {
	var req requests.LookupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return
	}

	mode, ok := services.ParseSearchMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody(c, "INVALID_MODE", "Chế độ tra cứu không hợp lệ: "+req.Mode))
		return
	}

	startTime := time.Now()
	res := lc.lockerService.Lookup(req.Query, mode)

	lc.logger.Debug("Lookup",
		zap.String("query", req.Query),
		zap.String("mode", string(res.Mode)),
		zap.String("tier", string(res.Tier)),
		zap.Int("candidates", len(res.Candidates)))

	c.JSON(http.StatusOK, responses.LookupResponse{
		Query:            res.Query,
		Mode:             string(res.Mode),
		Tier:             string(res.Tier),
		Candidates:       models.NewLockerCandidates(res.Candidates),
		Total:            len(res.Candidates),
		Parsed:           responses.NewParsedEcho(res.Parsed),
		Suggestions:      res.Suggestions,
		Generation:       res.Generation,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// Stats thống kê engine và store
func (lc *LockerController) Stats(c *gin.Context) {
	stats := lc.lockerService.Stats()

	c.JSON(http.StatusOK, responses.StatsResponse{
		BaseRecords:     stats.Index.BaseRecords,
		CustomRecords:   stats.Index.CustomRecords,
		IndexedRecords:  stats.Index.Indexed,
		IndexKeys:       stats.Index.Keys,
		Generation:      stats.Generation,
		CacheEntries:    stats.CacheEntries,
		PersistFailures: stats.PersistFailures,
		StoreBackend:    stats.Store.Backend,
		StoreReads:      stats.Store.Reads,
		StoreWrites:     stats.Store.Writes,
		Uptime:          stats.Uptime,
	})
}

// HealthCheck kiểm tra sức khỏe service
func (lc *LockerController) HealthCheck(c *gin.Context) {
	uptime := time.Since(lc.lockerService.GetStartTime())

	storeStatus := "healthy"
	if lc.lockerService.Stats().PersistFailures > 0 {
		storeStatus = "degraded"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.Round(time.Second).String(),
		Version:   Version,
		Services: map[string]string{
			"locker_index": "healthy",
			"store":        storeStatus,
		},
	})
}

// errorBody dựng ErrorResponse kèm request id
func errorBody(c *gin.Context, code, message string) responses.ErrorResponse {
	return responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString("request_id"),
	}
}

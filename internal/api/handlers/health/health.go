package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"mixmate/internal/core/ai/cache"
	"mixmate/internal/core/ai/queue"
	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusSource 提供隊列與緩存狀態
type StatusSource interface {
	QueueStatus() queue.Status
	CacheStats() cache.Stats
	Model() string
}

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model,omitempty"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	source  StatusSource
	storage Pinger
}

// NewHandler 創建健康檢查處理器，source 與 storage 可為 nil
func NewHandler(version string, source StatusSource, storage Pinger) *Handler {
	return &Handler{
		version: version,
		source:  source,
		storage: storage,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.source != nil {
		qs := h.source.QueueStatus()
		cs := h.source.CacheStats()
		response.Queue = &qs
		response.Cache = &cs
		response.Model = h.source.Model()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，儲存層無法連線時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			common.LogWarn("Storage not ready", zap.Error(err))
			checks["storage"] = err.Error()
			ready = false
		} else {
			checks["storage"] = "ok"
		}
	}

	if h.source != nil {
		qs := h.source.QueueStatus()
		if qs.MaxQueueSize > 0 && qs.QueueLength >= qs.MaxQueueSize {
			checks["queue"] = "full"
			ready = false
		} else {
			checks["queue"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

package assistant

import (
	"net/http"

	coreAssistant "calofit-backend/internal/core/assistant"
	"calofit-backend/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest 對話請求
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ParseRequest 回覆擷取請求（除錯與回歸比對用）
type ParseRequest struct {
	RawReply string `json:"raw_reply" binding:"required"`
}

// Handler 助理處理程序
type Handler struct {
	assistantSvc *coreAssistant.Service
}

// NewHandler 創建新的助理處理程序
func NewHandler(assistantSvc *coreAssistant.Service) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
	}
}

// HandleChat 處理對話請求
func (h *Handler) HandleChat(c *gin.Context) {
	requestID := ensureRequestID(c)

	common.LogInfo("開始處理對話請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.assistantSvc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		if custom, ok := err.(*common.CustomError); ok {
			c.JSON(custom.Status, gin.H{"error": custom.Message, "code": custom.Code})
			return
		}
		common.LogError("對話處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleParse 直接擷取一段回覆文字
// 不經過模型，用於除錯壞掉的回覆與回歸比對
func (h *Handler) HandleParse(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	parsed := h.assistantSvc.ParseReply(req.RawReply)
	c.JSON(http.StatusOK, parsed)
}

// ensureRequestID 確保請求有 X-Request-ID
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

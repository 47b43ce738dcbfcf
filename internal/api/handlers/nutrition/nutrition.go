package nutrition

import (
	"net/http"

	"calofit-backend/internal/core/assistant"
	coreNutrition "calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolveRequest 單一名稱解析請求
type ResolveRequest struct {
	Name string `json:"name" binding:"required"` // 自由文字食物名稱
	Fast bool   `json:"fast"`                    // 只查記憶體層，跳過語料庫
}

// ResolveResponse 解析結果
type ResolveResponse struct {
	Found  bool                    `json:"found"`
	Record *common.NutritionRecord `json:"record,omitempty"`
}

// ValidateRequest 批次驗證請求
type ValidateRequest struct {
	Names []string `json:"names" binding:"required"`
}

// ValidateResponse 批次驗證結果
type ValidateResponse struct {
	Results []assistant.ValidationResult `json:"results"`
}

// Handler 營養解析處理程序
type Handler struct {
	resolver     *coreNutrition.Resolver
	assistantSvc *assistant.Service
}

// NewHandler 創建新的營養解析處理程序
func NewHandler(resolver *coreNutrition.Resolver, assistantSvc *assistant.Service) *Handler {
	return &Handler{
		resolver:     resolver,
		assistantSvc: assistantSvc,
	}
}

// HandleResolve 解析單一食物名稱
// 查不到不是錯誤，回傳 found=false
func (h *Handler) HandleResolve(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var record *common.NutritionRecord
	if req.Fast {
		record = h.resolver.ResolveFast(req.Name)
	} else {
		record = h.resolver.Resolve(req.Name)
	}

	common.LogInfo("名稱解析完成",
		zap.String("request_id", requestID),
		zap.Bool("found", record != nil),
		zap.Bool("fast", req.Fast),
	)
	c.JSON(http.StatusOK, ResolveResponse{
		Found:  record != nil,
		Record: record,
	})
}

// HandleValidate 批次驗證食物名稱
func (h *Handler) HandleValidate(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	results, err := h.assistantSvc.ValidateNames(c.Request.Context(), req.Names)
	if err != nil {
		if custom, ok := err.(*common.CustomError); ok {
			c.JSON(custom.Status, gin.H{"error": custom.Message, "code": custom.Code})
			return
		}
		common.LogError("批次驗證失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	common.LogInfo("批次驗證完成",
		zap.String("request_id", requestID),
		zap.Int("names", len(req.Names)),
	)
	c.JSON(http.StatusOK, ValidateResponse{Results: results})
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

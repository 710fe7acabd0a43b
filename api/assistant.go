package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"cashlog/assistant"
	"cashlog/config"
	"cashlog/database"
	"cashlog/logging"
	"cashlog/middleware"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
)

// AssistantHandler 助手处理器
type AssistantHandler struct {
	evaluator *assistant.Evaluator
	logger    *logging.Logger
}

// NewAssistantHandler 创建助手处理器
func NewAssistantHandler(cfg *config.Config, l *logging.Logger) *AssistantHandler {
	if l == nil {
		l = logging.Discard()
	}
	return &AssistantHandler{
		evaluator: assistant.NewEvaluator(
			repository.NewLedger(database.DB),
			assistant.WithCurrency(cfg.Assistant.Currency),
			assistant.WithListLimit(cfg.Assistant.ListLimit),
			assistant.WithLogger(l),
		),
		logger: l,
	}
}

// AssistantRequest 助手请求
type AssistantRequest struct {
	Message string `json:"message" example:"total this month"`
}

// Ask 向助手提问
// @Summary 助手问答
// @Description 识别时间范围、预算和意图（total / list / remaining），返回回复和最多 50 条明细。空请求体按空消息处理。
// @Tags 助手
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssistantRequest true "问题"
// @Success 200 {object} assistant.Reply "回复"
// @Failure 400 {object} Response "请求体不是合法 JSON"
// @Router /api/v1/assistant [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "failed to read request body")
		return
	}

	var req AssistantRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			BadRequest(c, "invalid JSON body")
			return
		}
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	reply, err := h.evaluator.Evaluate(c.Request.Context(), req.Message, owner)
	if err != nil {
		h.logger.Error("助手查询失败", logging.FieldUserID, owner.UserID(), logging.FieldError, err)
		InternalError(c, SafeErrorMessage(err, "assistant failed"))
		return
	}
	c.JSON(http.StatusOK, reply)
}

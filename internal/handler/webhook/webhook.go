package webhook

import (
	"context"
	"io"
	"time"

	"dexflow/internal/model"
	"dexflow/internal/service"
	"dexflow/pkg/logger"
	"dexflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// TradingView Webhook 的接收器
// 信号源不解析应答内容，成功失败都回200和一行文本，
// 具体失败原因只记在服务端日志里

const processTimeout = 90 * time.Second

type Handler struct {
	svc *service.AlertService
}

func NewHandler(svc *service.AlertService) *Handler {
	return &Handler{svc: svc}
}

// HandleWebhook 接收POST请求并解析为告警消息
func (h *Handler) HandleWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Text(c, "error")
			return
		}

		var alert model.AlertMessage
		if err := json.Unmarshal(body, &alert); err != nil {
			logger.Warnf("[Webhook] invalid JSON payload: %v", err)
			response.Text(c, "error")
			return
		}

		logger.Infof("[Webhook] received alert: strategy=%s exchange=%s market=%s order=%s position=%s",
			alert.Strategy, alert.Exchange, alert.Market, alert.Order, alert.Position)

		// 重试最长可能跑满 maxRetries*(transport超时+间隔)，给足上限
		ctx, cancel := context.WithTimeout(c.Request.Context(), processTimeout)
		defer cancel()

		if err := h.svc.Process(ctx, &alert); err != nil {
			logger.Errorf("[Webhook] alert processing failed: %v", err)
			response.Text(c, "error")
			return
		}
		response.Text(c, "OK")
	}
}

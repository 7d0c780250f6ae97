package trade

import (
	"dexflow/internal/service"
	"dexflow/pkg/errors"
	"dexflow/pkg/errors/ecode"
	"dexflow/pkg/response"
	"dexflow/pkg/validator"

	"github.com/gin-gonic/gin"
)

// 历史成交与持仓查询

type Handler struct {
	svc *service.AlertService
}

func NewHandler(svc *service.AlertService) *Handler {
	return &Handler{svc: svc}
}

type tradeListReq struct {
	Strategy string `json:"strategy" form:"strategy"`
	Limit    int    `json:"limit" form:"limit"`
	Offset   int    `json:"offset" form:"offset"`
}

// TradeGetList 按策略分页查询成交历史
func (h *Handler) TradeGetList() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tradeListReq
		if err := c.ShouldBindQuery(&req); err != nil {
			response.JSON(c, errors.Wrap(err, ecode.InvalidParams, validator.Translate(err)), nil)
			return
		}
		list, err := h.svc.TradeHistory(c.Request.Context(), req.Strategy, req.Limit, req.Offset)
		if err != nil {
			response.JSON(c, err, nil)
			return
		}
		response.JSON(c, nil, list)
	}
}

type tradeLastReq struct {
	Strategy string `json:"strategy" form:"strategy" binding:"required"`
	Market   string `json:"market" form:"market"`
	Side     string `json:"side" form:"side"`
}

// TradeGetLast 某策略的最后一笔记录
func (h *Handler) TradeGetLast() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tradeLastReq
		if err := c.ShouldBindQuery(&req); err != nil {
			response.JSON(c, errors.Wrap(err, ecode.InvalidParams, validator.Translate(err)), nil)
			return
		}
		record, err := h.svc.TradeLast(c.Request.Context(), req.Strategy, req.Market, req.Side)
		if err != nil {
			response.JSON(c, err, nil)
			return
		}
		response.JSON(c, nil, record)
	}
}

// PositionsGet 透传某个交易所的当前持仓
func (h *Handler) PositionsGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		exchange := c.Query("exchange")
		positions, err := h.svc.OpenPositions(c.Request.Context(), exchange)
		if err != nil {
			response.JSON(c, err, nil)
			return
		}
		response.JSON(c, nil, positions)
	}
}

package router

import (
	"dexflow/internal/handler/ping"
	"dexflow/internal/handler/trade"
	"dexflow/internal/handler/webhook"
	"dexflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	wh *webhook.Handler
	th *trade.Handler
}

func NewApiRouter(wh *webhook.Handler, th *trade.Handler) *ApiRouter {
	return &ApiRouter{wh: wh, th: th}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	g.GET("/ping", ping.Ping())

	// 信号入口，不挂防抖（信号源的重试是合法行为）
	g.POST("/webhook", api.wh.HandleWebhook())

	base := g.Group("/api/v1")

	t := base.Group("/trades", middleware.AntiDuplicateMiddleware())
	{
		t.GET("/list", api.th.TradeGetList())
		t.GET("/last", api.th.TradeGetLast())
	}

	p := base.Group("/positions", middleware.AntiDuplicateMiddleware())
	{
		p.GET("", api.th.PositionsGet())
	}
}

package dex

import (
	"dexflow/internal/consts"
	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
)

// dYdX 永续市场的精度元数据，链上市场参数变化很少，维护静态表即可
var dydxMarkets = map[string]model.MarketMeta{
	"BTC-USD": {Market: "BTC-USD", StepSize: 0.0001, MinOrderSize: 0.0001, TickSize: 1},
	"ETH-USD": {Market: "ETH-USD", StepSize: 0.001, MinOrderSize: 0.001, TickSize: 0.1},
	"SOL-USD": {Market: "SOL-USD", StepSize: 0.1, MinOrderSize: 0.1, TickSize: 0.001},
}

var dydxFallback = model.MarketMeta{StepSize: 0.001, MinOrderSize: 0.001, TickSize: 0.01}

// NewDydxAdapter transport由外部注入（真实环境挂dYdX客户端，测试挂模拟）
func NewDydxAdapter(t Transport, account string, l ledger.Ledger, ctrl *execution.Controller, rec *recorder.TradeRecorder) *Client {
	return newClient(consts.DexDydx, account, t, l, ctrl, rec, dydxMarkets, dydxFallback)
}

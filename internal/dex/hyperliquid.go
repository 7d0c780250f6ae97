package dex

import (
	"dexflow/internal/consts"
	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
)

var hyperliquidMarkets = map[string]model.MarketMeta{
	"BTC":  {Market: "BTC", StepSize: 0.00001, MinOrderSize: 0.00001, TickSize: 1},
	"ETH":  {Market: "ETH", StepSize: 0.0001, MinOrderSize: 0.0001, TickSize: 0.1},
	"SOL":  {Market: "SOL", StepSize: 0.01, MinOrderSize: 0.01, TickSize: 0.001},
	"HYPE": {Market: "HYPE", StepSize: 0.01, MinOrderSize: 0.01, TickSize: 0.0001},
}

var hyperliquidFallback = model.MarketMeta{StepSize: 0.001, MinOrderSize: 0.001, TickSize: 0.0001}

func NewHyperliquidAdapter(t Transport, account string, l ledger.Ledger, ctrl *execution.Controller, rec *recorder.TradeRecorder) *Client {
	return newClient(consts.DexHyperliquid, account, t, l, ctrl, rec, hyperliquidMarkets, hyperliquidFallback)
}

package dex

import (
	"dexflow/internal/consts"
	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
)

// Perpetual Protocol 市场精度
var perpMarkets = map[string]model.MarketMeta{
	"BTCUSD": {Market: "BTCUSD", StepSize: 0.0001, MinOrderSize: 0.0001, TickSize: 0.1},
	"ETHUSD": {Market: "ETHUSD", StepSize: 0.001, MinOrderSize: 0.001, TickSize: 0.01},
}

var perpFallback = model.MarketMeta{StepSize: 0.001, MinOrderSize: 0.001, TickSize: 0.01}

func NewPerpAdapter(t Transport, account string, l ledger.Ledger, ctrl *execution.Controller, rec *recorder.TradeRecorder) *Client {
	return newClient(consts.DexPerp, account, t, l, ctrl, rec, perpMarkets, perpFallback)
}

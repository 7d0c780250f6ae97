package dex

import (
	"dexflow/internal/consts"
	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
)

var simulatedFallback = model.MarketMeta{StepSize: 0.0001, MinOrderSize: 0.0001, TickSize: 0.01}

// NewSimulatedAdapter 注册在 simulated 键下的干跑适配器，走完整管线但不触网
func NewSimulatedAdapter(t Transport, account string, l ledger.Ledger, ctrl *execution.Controller, rec *recorder.TradeRecorder) *Client {
	return newClient(consts.DexSimulated, account, t, l, ctrl, rec, nil, simulatedFallback)
}

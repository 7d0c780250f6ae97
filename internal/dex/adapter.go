package dex

import (
	"context"

	"dexflow/internal/model"
)

// DexAdapter 每个交易所一个实现，通过Registry按键选择
type DexAdapter interface {
	Key() string
	// IsAccountReady 账户可下单（已初始化且有可用保证金）
	IsAccountReady(ctx context.Context) bool
	// PlaceOrder 把告警转成订单并执行，返回执行结果
	PlaceOrder(ctx context.Context, alert *model.AlertMessage) (*model.ExecutionOutcome, error)
	// GetOpenPositions 当前持仓
	GetOpenPositions(ctx context.Context) ([]model.OpenPosition, error)
}

// Transport 交易所客户端的最小边界，签名/RPC细节都在实现里
// （真实实现挂接各交易所自己的客户端库，这里不展开）
type Transport interface {
	AccountState(ctx context.Context) (*model.AccountState, error)
	SubmitOrder(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error)
	OpenPositions(ctx context.Context) ([]model.OpenPosition, error)
}

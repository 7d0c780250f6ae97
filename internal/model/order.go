package model

type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderIntent 尺寸引擎的输出，与交易所无关的下单意图
type OrderIntent struct {
	Market         string
	Side           OrderSide
	Quantity       float64
	ReferencePrice float64
	// 按滑点计算出的限价，买单上浮卖单下压，保证可成交同时限制最差价格
	LimitPrice float64
	OrderMode  string
	Collateral string
}

// OrderResponse 交易所transport返回的下单结果
type OrderResponse struct {
	OrderId     string
	Status      string // filled / pending / error
	Message     string
	FilledSize  float64
	FilledPrice float64
}

const (
	OrderStatusFilled  = "filled"
	OrderStatusPending = "pending"
	OrderStatusError   = "error"
)

// Ok 交易所侧是否接受了订单（业务错误与网络错误同样处理，见执行控制器）
func (r *OrderResponse) Ok() bool {
	return r != nil && r.Status != OrderStatusError
}

// 执行结果的标签
type OutcomeState string

const (
	OutcomeFilled    OutcomeState = "filled"
	OutcomeRejected  OutcomeState = "rejected"
	OutcomeExhausted OutcomeState = "exhausted"
)

// ExecutionOutcome 一次执行的最终结果
type ExecutionOutcome struct {
	State       OutcomeState
	OrderId     string
	FilledSize  float64
	FilledPrice float64
	Side        OrderSide
	Reason      string // rejected时的原因
	LastError   error  // exhausted时的最后一次错误
}

func Filled(orderId string, size, price float64, side OrderSide) *ExecutionOutcome {
	return &ExecutionOutcome{
		State:       OutcomeFilled,
		OrderId:     orderId,
		FilledSize:  size,
		FilledPrice: price,
		Side:        side,
	}
}

func Rejected(reason string) *ExecutionOutcome {
	return &ExecutionOutcome{State: OutcomeRejected, Reason: reason}
}

func Exhausted(lastErr error) *ExecutionOutcome {
	return &ExecutionOutcome{State: OutcomeExhausted, LastError: lastErr}
}

// OpenPosition 交易所返回的持仓
type OpenPosition struct {
	Market     string  `json:"market"`
	Side       string  `json:"side"`
	Size       float64 `json:"size"`
	EntryPrice float64 `json:"entry_price"`
}

// AccountState 下单前需要的账户快照
type AccountState struct {
	Equity         float64
	FreeCollateral float64
	Ready          bool
}

// MarketMeta 交易所对某个市场的精度约束
type MarketMeta struct {
	Market       string
	StepSize     float64 // 数量最小步进
	MinOrderSize float64 // 最小下单数量
	TickSize     float64 // 价格最小步进
}

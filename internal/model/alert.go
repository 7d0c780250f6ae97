package model

/*
来源于TradingView告警的原始消息

	{
	  "exchange": "dydx",
	  "strategy": "macd-ema-v6",
	  "market": "BTC-USD",
	  "order": "buy",
	  "position": "long",
	  "price": 29500,
	  "size": 0.01,
	  "reverse": false,
	  "passphrase": "..."
	}
*/
type AlertMessage struct {
	Exchange string  `json:"exchange"` // 交易所注册键
	Strategy string  `json:"strategy"` // 策略标识符
	Market   string  `json:"market"`   // BTC-USD
	Order    string  `json:"order"`    // buy / sell
	Position string  `json:"position"` // long / short / flat
	Price    float64 `json:"price"`    // 信号价格

	// 三选一的下单数量来源，优先级 sizeByLeverage > sizeUsd > size
	Size           float64 `json:"size,omitempty"`
	SizeUsd        float64 `json:"sizeUsd,omitempty"`
	SizeByLeverage float64 `json:"sizeByLeverage,omitempty"`

	// 反向策略：非首单时基础数量翻倍
	Reverse *bool `json:"reverse"`

	Passphrase         string  `json:"passphrase,omitempty"`
	SlippagePercentage float64 `json:"slippagePercentage,omitempty"`
	OrderMode          string  `json:"orderMode,omitempty"`  // 透传给交易所
	Collateral         string  `json:"collateral,omitempty"` // 保证金币种，透传
	EnvProfile         string  `json:"envProfile,omitempty"` // mainnet / testnet
}

const (
	OrderBuy  = "buy"
	OrderSell = "sell"

	PositionLong  = "long"
	PositionShort = "short"
	PositionFlat  = "flat"
)

// IsReverse reverse未携带时视为false
func (a *AlertMessage) IsReverse() bool {
	return a.Reverse != nil && *a.Reverse
}

// IsEmpty 空告警（全部字段为零值）
func (a *AlertMessage) IsEmpty() bool {
	return a.Exchange == "" && a.Strategy == "" && a.Market == "" &&
		a.Order == "" && a.Position == "" && a.Price == 0 &&
		a.Size == 0 && a.SizeUsd == 0 && a.SizeByLeverage == 0 &&
		a.Reverse == nil && a.Passphrase == ""
}

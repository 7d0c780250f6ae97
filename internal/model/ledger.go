package model

// 账本中isFirstOrder的取值，沿用字符串存储
const (
	FirstOrderTrue  = "true"
	FirstOrderFalse = "false"
)

// StrategyState 每个策略在账本中的持久状态
// isFirstOrder 只会从 "true" 变为 "false" 一次，永不回退
// position 是已成交数量的有符号累计，正为净多头，负为净空头
type StrategyState struct {
	IsFirstOrder string  `json:"isFirstOrder"`
	Position     float64 `json:"position"`
	Reverse      bool    `json:"reverse"`
}

// NewStrategyState 首次出现的策略的初始状态
func NewStrategyState(reverse bool) *StrategyState {
	return &StrategyState{
		IsFirstOrder: FirstOrderTrue,
		Position:     0,
		Reverse:      reverse,
	}
}

// FirstOrder 该策略是否尚未有过成交
func (s *StrategyState) FirstOrder() bool {
	return s.IsFirstOrder != FirstOrderFalse
}

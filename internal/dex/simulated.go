package dex

import (
	"context"
	"sync"

	"dexflow/internal/model"

	"github.com/google/uuid"
)

// 模拟transport，本地联调和测试用：订单立即成交，持仓在内存里累计

type SimulatedTransport struct {
	mu        sync.Mutex
	equity    float64
	positions map[string]*model.OpenPosition
	orders    map[string]*model.OrderResponse

	// 失败脚本：前N次提交按脚本返回错误，之后正常成交
	script []error
	calls  int
}

func NewSimulatedTransport(equity float64) *SimulatedTransport {
	return &SimulatedTransport{
		equity:    equity,
		positions: make(map[string]*model.OpenPosition),
		orders:    make(map[string]*model.OrderResponse),
	}
}

// FailNext 设置失败脚本，nil元素表示该次成功
func (s *SimulatedTransport) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = errs
	s.calls = 0
}

func (s *SimulatedTransport) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *SimulatedTransport) AccountState(ctx context.Context) (*model.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.AccountState{
		Equity:         s.equity,
		FreeCollateral: s.equity,
		Ready:          true,
	}, nil
}

func (s *SimulatedTransport) SubmitOrder(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	s.calls++
	if idx < len(s.script) && s.script[idx] != nil {
		return nil, s.script[idx]
	}

	orderID := uuid.NewString()
	resp := &model.OrderResponse{
		OrderId:     orderID,
		Status:      model.OrderStatusFilled,
		Message:     "Simulated order filled",
		FilledSize:  intent.Quantity,
		FilledPrice: intent.LimitPrice,
	}
	s.orders[orderID] = resp
	s.applyFill(intent)
	return resp, nil
}

func (s *SimulatedTransport) OpenPositions(ctx context.Context) ([]model.OpenPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]model.OpenPosition, 0, len(s.positions))
	for _, p := range s.positions {
		list = append(list, *p)
	}
	return list, nil
}

// applyFill 持仓按方向累计，归零时移除
func (s *SimulatedTransport) applyFill(intent *model.OrderIntent) {
	delta := intent.Quantity
	if intent.Side == model.Sell {
		delta = -delta
	}
	pos, ok := s.positions[intent.Market]
	if !ok {
		side := model.PositionLong
		if delta < 0 {
			side = model.PositionShort
		}
		s.positions[intent.Market] = &model.OpenPosition{
			Market:     intent.Market,
			Side:       side,
			Size:       delta,
			EntryPrice: intent.LimitPrice,
		}
		return
	}
	pos.Size += delta
	if pos.Size == 0 {
		delete(s.positions, intent.Market)
		return
	}
	if pos.Size > 0 {
		pos.Side = model.PositionLong
	} else {
		pos.Side = model.PositionShort
	}
}

package validator

import (
	"context"
	"testing"

	"dexflow/internal/dex"
	"dexflow/internal/model"
)

type stubAdapter struct{ key string }

func (s *stubAdapter) Key() string                        { return s.key }
func (s *stubAdapter) IsAccountReady(context.Context) bool { return true }
func (s *stubAdapter) PlaceOrder(context.Context, *model.AlertMessage) (*model.ExecutionOutcome, error) {
	return nil, nil
}
func (s *stubAdapter) GetOpenPositions(context.Context) ([]model.OpenPosition, error) {
	return nil, nil
}

func boolPtr(b bool) *bool { return &b }

func validAlert() *model.AlertMessage {
	return &model.AlertMessage{
		Exchange:   "dydx",
		Strategy:   "macd-cross-v2",
		Market:     "BTC-USD",
		Order:      model.OrderBuy,
		Position:   model.PositionLong,
		Price:      64000,
		Size:       0.1,
		Reverse:    boolPtr(false),
		Passphrase: "riddle-me-this",
		EnvProfile: "testnet",
	}
}

func newValidator() *AlertValidator {
	r := dex.NewRegistry()
	r.Register(&stubAdapter{key: "dydx"})
	return NewAlertValidator(r, "riddle-me-this", "testnet")
}

func TestValidateAcceptsWellFormedAlert(t *testing.T) {
	if !newValidator().Validate(validAlert()) {
		t.Fatal("well-formed alert rejected")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(a *model.AlertMessage)
	}{
		{"empty payload", func(a *model.AlertMessage) { *a = model.AlertMessage{} }},
		{"wrong passphrase", func(a *model.AlertMessage) { a.Passphrase = "guess" }},
		{"unknown exchange", func(a *model.AlertMessage) { a.Exchange = "binance" }},
		{"missing strategy", func(a *model.AlertMessage) { a.Strategy = "" }},
		{"invalid order", func(a *model.AlertMessage) { a.Order = "hold" }},
		{"invalid position", func(a *model.AlertMessage) { a.Position = "hedged" }},
		{"reverse missing", func(a *model.AlertMessage) { a.Reverse = nil }},
		{"env profile mismatch", func(a *model.AlertMessage) { a.EnvProfile = "mainnet" }},
	}

	v := newValidator()
	for _, c := range cases {
		a := validAlert()
		c.mutate(a)
		if v.Validate(a) {
			t.Fatalf("%s: alert accepted", c.name)
		}
	}
}

// exchange为空表示走默认交易所，不在这里拦
func TestValidateAllowsEmptyExchange(t *testing.T) {
	a := validAlert()
	a.Exchange = ""
	if !newValidator().Validate(a) {
		t.Fatal("alert without exchange rejected")
	}
}

// envProfile未携带时不做环境匹配
func TestValidateAllowsMissingEnvProfile(t *testing.T) {
	a := validAlert()
	a.EnvProfile = ""
	if !newValidator().Validate(a) {
		t.Fatal("alert without env profile rejected")
	}
}

func TestAllowFirstClose(t *testing.T) {
	v := newValidator()

	a := validAlert()
	a.Position = model.PositionFlat

	// 首单就平仓：无仓可平，拒绝
	first := &model.StrategyState{IsFirstOrder: model.FirstOrderTrue}
	if v.AllowFirstClose(a, first) {
		t.Fatal("flat alert on first-order strategy accepted")
	}

	// 已有历史订单的策略可以平仓
	seasoned := &model.StrategyState{IsFirstOrder: model.FirstOrderFalse}
	if !v.AllowFirstClose(a, seasoned) {
		t.Fatal("flat alert on seasoned strategy rejected")
	}

	// 非flat信号与首单状态无关
	a.Position = model.PositionLong
	if !v.AllowFirstClose(a, first) {
		t.Fatal("long alert blocked by first-order state")
	}
}

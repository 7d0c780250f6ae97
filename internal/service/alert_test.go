package service

import (
	"context"
	"testing"
	"time"

	"dexflow/internal/dex"
	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
	"dexflow/internal/validator"
	"dexflow/pkg/errors"
	"dexflow/pkg/errors/ecode"
)

func boolPtr(b bool) *bool { return &b }

func newService(t *testing.T) (*AlertService, *ledger.FileLedger) {
	t.Helper()
	led, err := ledger.Open(t.TempDir(), "testnet")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := execution.NewController(1, time.Millisecond)
	rec := recorder.NewTradeRecorder("dydx", "testnet", led, nil, nil)

	registry := dex.NewRegistry()
	registry.Register(dex.NewDydxAdapter(dex.NewSimulatedTransport(10000), "a1", led, ctrl, rec))

	v := validator.NewAlertValidator(registry, "riddle-me-this", "testnet")
	svc := NewAlertService(registry, v, led, nil, nil, 0, "dydx")
	return svc, led
}

func alert() *model.AlertMessage {
	return &model.AlertMessage{
		Exchange:   "dydx",
		Strategy:   "s1",
		Market:     "BTC-USD",
		Order:      model.OrderBuy,
		Position:   model.PositionLong,
		Price:      64000,
		Size:       0.1,
		Reverse:    boolPtr(false),
		Passphrase: "riddle-me-this",
	}
}

func TestProcessHappyPath(t *testing.T) {
	svc, led := newService(t)

	if err := svc.Process(context.Background(), alert()); err != nil {
		t.Fatal(err)
	}

	// 成交后账本已更新
	st, ok, err := led.Read("s1")
	if err != nil || !ok {
		t.Fatalf("ledger entry missing: ok=%v err=%v", ok, err)
	}
	if st.IsFirstOrder != model.FirstOrderFalse {
		t.Fatal("isFirstOrder not cleared after fill")
	}
}

func TestProcessValidationFailure(t *testing.T) {
	svc, _ := newService(t)

	a := alert()
	a.Passphrase = "guess"
	err := svc.Process(context.Background(), a)
	if code, _ := errors.DecodeErr(err); code != ecode.ValidationFailed {
		t.Fatalf("code = %d, want ValidationFailed", code)
	}
}

// exchange为空时落到默认交易所
func TestProcessDefaultDex(t *testing.T) {
	svc, _ := newService(t)

	a := alert()
	a.Exchange = ""
	if err := svc.Process(context.Background(), a); err != nil {
		t.Fatal(err)
	}
}

// 策略的第一个动作不能是平仓
func TestProcessFlatFirstSuppressed(t *testing.T) {
	svc, led := newService(t)

	a := alert()
	a.Position = model.PositionFlat
	err := svc.Process(context.Background(), a)
	if code, _ := errors.DecodeErr(err); code != ecode.ValidationFailed {
		t.Fatalf("code = %d, want ValidationFailed", code)
	}

	// 账本条目已经建立（后续信号可用），但没有任何成交
	st, ok, err2 := led.Read("s1")
	if err2 != nil || !ok {
		t.Fatalf("ledger entry missing: ok=%v err=%v", ok, err2)
	}
	if st.IsFirstOrder != model.FirstOrderTrue {
		t.Fatal("suppressed flat alert mutated ledger")
	}
}

func TestTradeHistoryWithoutStore(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.TradeHistory(context.Background(), "s1", 10, 0); err == nil {
		t.Fatal("trade history without database should fail")
	}
}

func TestOpenPositionsUnknownExchange(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.OpenPositions(context.Background(), "binance"); err == nil {
		t.Fatal("unknown exchange accepted")
	}
}

package dex

import (
	"testing"
	"time"

	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/recorder"
)

func TestRegistryDispatch(t *testing.T) {
	led, err := ledger.Open(t.TempDir(), "testnet")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := execution.NewController(1, time.Millisecond)
	rec := recorder.NewTradeRecorder("x", "testnet", led, nil, nil)

	r := NewRegistry()
	r.Register(NewDydxAdapter(NewSimulatedTransport(1000), "a1", led, ctrl, rec))
	r.Register(NewHyperliquidAdapter(NewSimulatedTransport(1000), "a2", led, ctrl, rec))

	if !r.Has("dydx") || !r.Has("hyperliquid") {
		t.Fatalf("registered keys missing, got %v", r.ListKeys())
	}

	a, ok := r.GetDex("dydx")
	if !ok || a.Key() != "dydx" {
		t.Fatalf("GetDex returned wrong adapter: %v", a)
	}

	// 未注册的键返回absent而不是panic
	if _, ok := r.GetDex("binance"); ok {
		t.Fatal("unregistered key resolved")
	}
	if len(r.ListKeys()) != 2 {
		t.Fatalf("ListKeys = %v", r.ListKeys())
	}
}

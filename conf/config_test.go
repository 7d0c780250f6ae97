package conf

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	if err := LoadConfig("config.yaml"); err != nil {
		t.Fatal(err)
	}
	if AppConfig.Listen == "" {
		t.Fatal("listen not loaded")
	}
	if AppConfig.Network != "testnet" {
		t.Fatalf("network = %q", AppConfig.Network)
	}
	if len(AppConfig.Dexes) == 0 {
		t.Fatal("dexes not loaded")
	}
}

func TestApplyDefaults(t *testing.T) {
	var c Config
	applyDefaults(&c)
	if c.Network != "mainnet" {
		t.Fatalf("default network = %q", c.Network)
	}
	if c.Execution.MaxRetries != 3 || c.Execution.RetryDelay != 5*time.Second {
		t.Fatalf("execution defaults = %+v", c.Execution)
	}
	if c.Ledger.DataDir == "" || c.Audit.LogDir == "" {
		t.Fatal("storage dirs missing defaults")
	}
}

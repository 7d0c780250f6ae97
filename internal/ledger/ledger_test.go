package ledger

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"dexflow/internal/model"
)

func TestEnsureExistsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, "testnet")
	if err != nil {
		t.Fatal(err)
	}

	st, err := l.EnsureExists("macd-cross-v2", true)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsFirstOrder != model.FirstOrderTrue {
		t.Fatalf("new entry isFirstOrder = %q, want %q", st.IsFirstOrder, model.FirstOrderTrue)
	}
	if !st.Reverse {
		t.Fatal("reverse flag not stored")
	}

	// 再次调用不会重置已有条目
	if err := l.WriteField("macd-cross-v2", FieldIsFirstOrder, model.FirstOrderFalse); err != nil {
		t.Fatal(err)
	}
	st, err = l.EnsureExists("macd-cross-v2", false)
	if err != nil {
		t.Fatal(err)
	}
	if st.IsFirstOrder != model.FirstOrderFalse {
		t.Fatalf("EnsureExists reset isFirstOrder to %q", st.IsFirstOrder)
	}
	if !st.Reverse {
		t.Fatal("EnsureExists overwrote reverse flag")
	}
}

func TestIsFirstOrderNeverReverts(t *testing.T) {
	l, err := Open(t.TempDir(), "testnet")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.EnsureExists("s1", false); err != nil {
		t.Fatal(err)
	}

	if err := l.WriteField("s1", FieldIsFirstOrder, model.FirstOrderFalse); err != nil {
		t.Fatal(err)
	}
	// 写回true是无效操作，静默忽略
	if err := l.WriteField("s1", FieldIsFirstOrder, model.FirstOrderTrue); err != nil {
		t.Fatal(err)
	}
	st, ok, err := l.Read("s1")
	if err != nil || !ok {
		t.Fatalf("read failed: ok=%v err=%v", ok, err)
	}
	if st.IsFirstOrder != model.FirstOrderFalse {
		t.Fatalf("isFirstOrder reverted to %q", st.IsFirstOrder)
	}
}

func TestAdjustPositionAccumulates(t *testing.T) {
	l, err := Open(t.TempDir(), "testnet")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.EnsureExists("s1", false); err != nil {
		t.Fatal(err)
	}

	if _, err := l.AdjustPosition("s1", 0.1); err != nil {
		t.Fatal(err)
	}
	got, err := l.AdjustPosition("s1", -0.3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-(-0.2)) > 1e-9 {
		t.Fatalf("position = %v, want -0.2", got)
	}
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, "mainnet")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.EnsureExists("ema-trend-v1", true); err != nil {
		t.Fatal(err)
	}
	if err := l.WriteField("ema-trend-v1", FieldIsFirstOrder, model.FirstOrderFalse); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AdjustPosition("ema-trend-v1", 1.5); err != nil {
		t.Fatal(err)
	}

	// 重新打开同一个文档，状态应该原样恢复
	l2, err := Open(dir, "mainnet")
	if err != nil {
		t.Fatal(err)
	}
	st, ok, err := l2.Read("ema-trend-v1")
	if err != nil || !ok {
		t.Fatalf("read after reopen: ok=%v err=%v", ok, err)
	}
	if st.IsFirstOrder != model.FirstOrderFalse || st.Position != 1.5 || !st.Reverse {
		t.Fatalf("state after reopen = %+v", st)
	}
}

func TestNetworksAreIsolated(t *testing.T) {
	dir := t.TempDir()
	main, err := Open(dir, "mainnet")
	if err != nil {
		t.Fatal(err)
	}
	test, err := Open(dir, "testnet")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := main.EnsureExists("s1", false); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := test.Read("s1"); ok {
		t.Fatal("testnet ledger sees mainnet entry")
	}
}

func TestCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger-testnet.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(dir, "testnet")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("corrupt document err = %v, want ErrStorageUnavailable", err)
	}
}

func TestWriteFieldCoercion(t *testing.T) {
	l, err := Open(t.TempDir(), "testnet")
	if err != nil {
		t.Fatal(err)
	}
	// 字符串形式的数值也能写入position
	if err := l.WriteField("s1", FieldPosition, "1.25"); err != nil {
		t.Fatal(err)
	}
	st, _, err := l.Read("s1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Position != 1.25 {
		t.Fatalf("position = %v, want 1.25", st.Position)
	}

	if err := l.WriteField("s1", "leverage", 3); err == nil {
		t.Fatal("unknown field accepted")
	}
}
